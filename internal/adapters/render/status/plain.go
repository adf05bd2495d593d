package status

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
)

// Plain writes one line per visible change, for output that is not a
// terminal.
type Plain struct {
	w   io.Writer
	now func() time.Time

	mu      sync.Mutex
	last    domain.Snapshot
	started bool
}

var _ ports.SessionObserver = (*Plain)(nil)

func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w, now: time.Now}
}

func (p *Plain) Observe(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lines []string
	for _, step := range domain.Steps {
		record := snap.Phase(step)
		if record == p.last.Phase(step) {
			continue
		}
		// Pending steps are shown only when a new download cycle opens.
		if record.Phase == domain.PhasePending && (step != domain.StepDownload || !p.started) {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", record.Phase, record.Label))
	}

	if snap.Downloads != p.last.Downloads {
		lines = append(lines, fmt.Sprintf("Downloads: %d", snap.Downloads))
	}
	if snap.Details != nil && p.last.Details == nil {
		lines = append(lines, plainDetails(*snap.Details)...)
	}
	if snap.Holding() && !snap.HoldUntil.Equal(p.last.HoldUntil) && !snap.ShutdownRequested {
		lines = append(lines, fmt.Sprintf("Closing in %ds (interrupt to close now)", secondsLeft(snap.HoldUntil, p.now())))
	}
	if snap.ShutdownRequested && !p.last.ShutdownRequested {
		lines = append(lines, "Closing share")
	}

	p.last = snap
	p.started = true

	if len(lines) == 0 {
		return
	}
	_, _ = fmt.Fprintln(p.w, strings.Join(lines, "\n"))
}

func plainDetails(details domain.Details) []string {
	checksumKey := strings.ToUpper(details.ChecksumAlgorithm)
	if checksumKey == "" {
		checksumKey = "Checksum"
	}
	return []string{
		"Download details:",
		"- URL: " + details.URL,
		fmt.Sprintf("- %s: %s", checksumKey, details.Checksum),
		"- Password: " + details.Password,
	}
}
