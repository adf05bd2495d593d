package application

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/bnema/share-cli/internal/domain"
)

const (
	passwordLength   = 16
	passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var tokenAdjectives = []string{
	"able", "amber", "ample", "azure", "bold", "brave", "brisk", "calm",
	"clever", "cosmic", "crisp", "curly", "dapper", "daring", "dusty", "eager",
	"early", "fancy", "fleet", "fluffy", "fond", "frank", "fresh", "gentle",
	"giant", "gilded", "glad", "golden", "grand", "hazy", "honest", "humble",
	"icy", "jolly", "keen", "kind", "lively", "lofty", "loud", "lucky",
	"lunar", "mellow", "merry", "mighty", "misty", "modest", "nimble", "noble",
	"odd", "olive", "plucky", "polite", "proud", "quick", "quiet", "rapid",
	"rosy", "royal", "rustic", "shiny", "silent", "silver", "sleek", "smooth",
	"snowy", "solar", "spry", "steady", "stormy", "sturdy", "sunny", "swift",
	"tidy", "tiny", "tranquil", "vast", "velvet", "vivid", "warm", "wild",
	"wise", "witty", "young", "zesty",
}

var tokenNouns = []string{
	"anchor", "apple", "arrow", "badger", "banjo", "beacon", "birch", "bison",
	"breeze", "brook", "cabin", "canyon", "cedar", "comet", "coral", "crane",
	"delta", "desert", "dolphin", "dune", "eagle", "ember", "falcon", "fern",
	"fjord", "forest", "fox", "galaxy", "garden", "geyser", "glacier", "harbor",
	"hawk", "heron", "island", "jaguar", "jungle", "kettle", "lagoon", "lantern",
	"lemon", "lynx", "maple", "meadow", "meteor", "moose", "nebula", "oasis",
	"ocean", "orchid", "otter", "owl", "panda", "pebble", "pepper", "pine",
	"planet", "prairie", "quartz", "rabbit", "raven", "reef", "river", "robin",
	"rocket", "saddle", "salmon", "sparrow", "spruce", "summit", "thunder", "tiger",
	"trail", "tulip", "valley", "violet", "walrus", "willow", "wish", "zebra",
}

// TokenGenerator produces the session access token.
type TokenGenerator func() (domain.AccessToken, error)

// PasswordGenerator produces the archive password when none is forced.
type PasswordGenerator func() (string, error)

func NewAccessToken() (domain.AccessToken, error) {
	return newAccessToken(rand.Reader)
}

func newAccessToken(r io.Reader) (domain.AccessToken, error) {
	adjective, err := pick(r, tokenAdjectives)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	noun, err := pick(r, tokenNouns)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return domain.AccessToken(adjective + "-" + noun), nil
}

func NewPassword() (string, error) {
	return newPassword(rand.Reader)
}

func newPassword(r io.Reader) (string, error) {
	out := make([]byte, passwordLength)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(r, limit)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

func pick(r io.Reader, words []string) (string, error) {
	n, err := rand.Int(r, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[n.Int64()], nil
}
