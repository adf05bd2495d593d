package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	progressBarWidth = 24
	symbolDone       = "✔"
	symbolErrored    = "✖"
	symbolStarted    = "…"
)

type viewOptions struct {
	Now time.Time
	// Spinner replaces the started symbol when set.
	Spinner string
	// HoldHints are shown under the countdown.
	HoldHints []string
}

func renderView(snap domain.Snapshot, opts viewOptions, s styles) string {
	lines := make([]string, 0, len(domain.Steps))
	for _, step := range domain.Steps {
		lines = append(lines, stepLine(snap, step, opts, s))
	}

	switch {
	case snap.ShutdownRequested:
		lines = append(lines, s.section.Render(s.closing.Render("Closing share")))
	case snap.Holding():
		lines = append(lines, s.section.Render(holdBlock(snap, opts, s)))
	case snap.Details != nil:
		lines = append(lines, s.section.Render(detailsBlock(*snap.Details, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func stepLine(snap domain.Snapshot, step domain.Step, opts viewOptions, s styles) string {
	record := snap.Phase(step)
	label := record.Label
	if step == domain.StepDownload && record.Phase != domain.PhasePending && snap.Downloads > 0 {
		label = fmt.Sprintf("Downloads: %d", snap.Downloads)
	}

	var text string
	if record.Phase == domain.PhasePending {
		text = s.pending.Render(label)
	} else {
		text = s.label.Render(label)
	}

	line := phaseSymbol(record.Phase, opts, s) + " " + text
	if step == domain.StepDownload && record.Phase == domain.PhaseStarted {
		line += " " + renderProgressBar(snap.Progress, progressBarWidth, s)
	}
	return line
}

func phaseSymbol(phase domain.Phase, opts viewOptions, s styles) string {
	switch phase {
	case domain.PhaseStarted:
		if opts.Spinner != "" {
			return opts.Spinner
		}
		return s.spinner.Render(symbolStarted)
	case domain.PhaseDone:
		return s.done.Render(symbolDone)
	case domain.PhaseErrored:
		return s.errored.Render(symbolErrored)
	default:
		return " "
	}
}

func detailsBlock(details domain.Details, s styles) string {
	checksumKey := strings.ToUpper(details.ChecksumAlgorithm)
	if checksumKey == "" {
		checksumKey = "Checksum"
	}

	rows := [][2]string{
		{"URL", details.URL},
		{checksumKey, details.Checksum},
		{"Password", details.Password},
	}

	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}

	lines := []string{s.detailHead.Render("Download details:")}
	for _, row := range rows {
		key := fmt.Sprintf("- %-*s", width+1, row[0]+":")
		lines = append(lines, s.detailKey.Render(key)+" "+s.detailVal.Render(row[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func holdBlock(snap domain.Snapshot, opts viewOptions, s styles) string {
	lines := []string{s.closing.Render(fmt.Sprintf("Closing in %ds", secondsLeft(snap.HoldUntil, opts.Now)))}
	for _, hint := range opts.HoldHints {
		lines = append(lines, s.hint.Render(hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func secondsLeft(until, now time.Time) int {
	if now.IsZero() || until.IsZero() {
		return 0
	}
	left := int(math.Round(until.Sub(now).Seconds()))
	if left < 0 {
		return 0
	}
	return left
}

func renderProgressBar(fraction float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction = clampFraction(fraction)
	filled := int(math.Round(float64(width) * fraction))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
		" ",
		s.barText.Render(fmt.Sprintf("%3.0f%%", fraction*100)),
	)
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
