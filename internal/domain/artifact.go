package domain

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const maxSubdomainLength = 20

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// AccessToken is the unguessable path segment a download is served under.
type AccessToken string

// Subdomain derives the preferred relay subdomain from the token.
func (t AccessToken) Subdomain() string {
	sub := nonAlphanumeric.ReplaceAllString(strings.ToLower(string(t)), "")
	if len(sub) > maxSubdomainLength {
		sub = sub[:maxSubdomainLength]
	}
	return sub
}

type Endpoint struct {
	Address string
	Port    int
}

func (e Endpoint) URL(token AccessToken) string {
	return fmt.Sprintf("http://%s:%d/%s", e.Address, e.Port, token)
}

// Source is what gets packaged: a filesystem path or a piped stream.
type Source struct {
	Path  string
	Stdin io.Reader
	// Name forces the download name; for stdin it also names the archived entry.
	Name string
}

func (s Source) Valid() bool {
	return strings.TrimSpace(s.Path) != "" || s.Stdin != nil
}

func (s Source) IsStdin() bool {
	return strings.TrimSpace(s.Path) == "" && s.Stdin != nil
}

type Artifact struct {
	Path              string
	Name              string
	SizeBytes         int64
	Checksum          string
	ChecksumAlgorithm string
	Password          string
}

type Details struct {
	URL               string
	Checksum          string
	ChecksumAlgorithm string
	Password          string
}
