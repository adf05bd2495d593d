package status

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servingSession(t *testing.T) *domain.Session {
	t.Helper()

	session := domain.NewSession()
	require.NoError(t, session.SetToken("brave-otter"))
	require.NoError(t, session.Advance(domain.StepFile, domain.PhaseStarted, "Preparing file"))
	require.NoError(t, session.Advance(domain.StepFile, domain.PhaseDone, "File ready"))
	require.NoError(t, session.Advance(domain.StepServer, domain.PhaseStarted, "Starting server"))
	require.NoError(t, session.MarkServerReady(
		domain.Endpoint{Address: "192.168.1.20", Port: 8080},
		"http://192.168.1.20:8080/brave-otter",
		"Server ready",
	))
	session.SetDetails(domain.Details{
		URL:               "http://192.168.1.20:8080/brave-otter",
		Checksum:          "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		ChecksumAlgorithm: "sha1",
		Password:          "s3cretPassw0rdXY",
	})
	session.Relabel(domain.StepDownload, "Awaiting download")
	return session
}

func TestRenderViewShowsDetails(t *testing.T) {
	output := renderView(servingSession(t).Snapshot(), viewOptions{}, newStyles())

	assert.Contains(t, output, symbolDone+" File ready")
	assert.Contains(t, output, "Server ready")
	assert.Contains(t, output, "Awaiting download")
	assert.Contains(t, output, "Download details:")
	assert.Contains(t, output, "http://192.168.1.20:8080/brave-otter")
	assert.Contains(t, output, "SHA1:")
	assert.Contains(t, output, "da39a3ee5e6b4b0d3255bfef95601890afd80709")
	assert.Contains(t, output, "s3cretPassw0rdXY")
	assert.NotContains(t, output, "Closing")
}

func TestRenderViewShowsProgressWhileDownloading(t *testing.T) {
	session := servingSession(t)
	require.NoError(t, session.StartDownload("Downloading"))
	session.SetProgress(0.5)

	output := renderView(session.Snapshot(), viewOptions{Spinner: "*"}, newStyles())

	assert.Contains(t, output, "* Downloading")
	assert.Contains(t, output, "[============------------]")
	assert.Contains(t, output, " 50%")
}

func TestRenderViewShowsHoldCountdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := servingSession(t)
	require.NoError(t, session.StartDownload(""))
	require.NoError(t, session.CompleteDownload(now, 60*time.Second, "Downloaded"))

	output := renderView(session.Snapshot(), viewOptions{
		Now:       now.Add(15 * time.Second),
		HoldHints: newKeyMap().hints(),
	}, newStyles())

	assert.Contains(t, output, "Downloads: 1")
	assert.Contains(t, output, "Closing in 45s")
	assert.Contains(t, output, "Ctrl+C to close now")
	assert.Contains(t, output, "Ctrl+R to allow more downloads")
	assert.NotContains(t, output, "Download details:")
}

func TestRenderViewShowsShutdown(t *testing.T) {
	session := servingSession(t)
	session.RequestShutdown()

	output := renderView(session.Snapshot(), viewOptions{}, newStyles())

	assert.Contains(t, output, "Closing share")
	assert.NotContains(t, output, "Download details:")
}

func TestRenderViewMarksErroredSteps(t *testing.T) {
	session := domain.NewSession()
	require.NoError(t, session.Advance(domain.StepFile, domain.PhaseStarted, ""))
	require.NoError(t, session.Advance(domain.StepFile, domain.PhaseErrored, "Packaging failed"))

	output := renderView(session.Snapshot(), viewOptions{}, newStyles())

	assert.Contains(t, output, symbolErrored+" Packaging failed")
}

func TestRenderProgressBar(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		fraction float64
		want     string
	}{
		{name: "empty", fraction: 0, want: "[----]   0%"},
		{name: "half", fraction: 0.5, want: "[==--]  50%"},
		{name: "full", fraction: 1, want: "[====] 100%"},
		{name: "clamped high", fraction: 3, want: "[====] 100%"},
		{name: "clamped low", fraction: -1, want: "[----]   0%"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, renderProgressBar(tc.fraction, 4, newStyles()))
		})
	}
}

func TestSecondsLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, secondsLeft(now.Add(30*time.Second), now))
	assert.Equal(t, 0, secondsLeft(now.Add(-time.Second), now))
	assert.Equal(t, 0, secondsLeft(time.Time{}, now))
}

type recordingControls struct {
	shutdowns   int
	keepServing int
}

func (c *recordingControls) Shutdown()    { c.shutdowns++ }
func (c *recordingControls) KeepServing() { c.keepServing++ }

func TestModelKeysSignalControls(t *testing.T) {
	controls := &recordingControls{}
	m := newModel(controls, domain.NewSession().Snapshot())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, 1, controls.shutdowns)
	assert.Equal(t, 1, controls.keepServing)
}

func TestModelTracksSnapshots(t *testing.T) {
	m := newModel(&recordingControls{}, domain.NewSession().Snapshot())

	updated, _ := m.Update(snapshotMsg(servingSession(t).Snapshot()))
	view := updated.View()

	assert.Contains(t, view, "Download details:")
	assert.Contains(t, view, "brave-otter")
}

func TestModelQuitsOnDone(t *testing.T) {
	m := newModel(&recordingControls{}, domain.NewSession().Snapshot())

	updated, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = updated.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestKeyMapHints(t *testing.T) {
	keys := newKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, keys.shutdown))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlR}, keys.keepServing))
	assert.Equal(t, []string{"Ctrl+C to close now", "Ctrl+R to allow more downloads"}, keys.hints())
}

func TestPlainPrintsChangesOnce(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	plain := NewPlain(&buf)
	plain.now = func() time.Time { return now }

	session := servingSession(t)
	plain.Observe(session.Snapshot())
	plain.Observe(session.Snapshot())

	first := buf.String()
	assert.Equal(t, 1, strings.Count(first, "Download details:"))
	assert.Contains(t, first, "[done] File ready")
	assert.Contains(t, first, "[done] Server ready")
	assert.Contains(t, first, "- SHA1: da39a3ee5e6b4b0d3255bfef95601890afd80709")
	assert.NotContains(t, first, "[pending]")

	buf.Reset()
	require.NoError(t, session.StartDownload("Downloading"))
	plain.Observe(session.Snapshot())
	require.NoError(t, session.CompleteDownload(now, 60*time.Second, "Downloaded"))
	plain.Observe(session.Snapshot())
	session.RequestShutdown()
	plain.Observe(session.Snapshot())

	rest := buf.String()
	assert.Contains(t, rest, "[started] Downloading")
	assert.Contains(t, rest, "[done] Downloaded")
	assert.Contains(t, rest, "Downloads: 1")
	assert.Contains(t, rest, "Closing in 60s")
	assert.Contains(t, rest, "Closing share")
	assert.NotContains(t, rest, "Download details:")
}
