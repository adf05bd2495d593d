package domain

import (
	"fmt"
	"time"
)

var defaultLabels = map[Step]string{
	StepFile:      "Prepare",
	StepServer:    "Server",
	StepTunnel:    "Tunnel",
	StepClipboard: "Copy",
	StepDownload:  "Download",
}

// dependencies lists the step that must be done before a step may start.
var dependencies = map[Step]Step{
	StepServer:    StepFile,
	StepTunnel:    StepServer,
	StepClipboard: StepServer,
	StepDownload:  StepServer,
}

// Session is the root aggregate of one share run. It is not safe for
// concurrent use; a single owner mutates it and hands out Snapshots.
type Session struct {
	token             AccessToken
	endpoint          *Endpoint
	artifact          *Artifact
	connectionURL     string
	phases            map[Step]PhaseRecord
	downloads         int
	progress          float64
	holdUntil         time.Time
	shutdownRequested bool
	details           *Details
}

func NewSession() *Session {
	phases := make(map[Step]PhaseRecord, len(Steps))
	for _, step := range Steps {
		phases[step] = NewPhaseRecord(defaultLabels[step])
	}

	return &Session{phases: phases}
}

func (s *Session) SetToken(token AccessToken) error {
	if s.token != "" {
		return fmt.Errorf("%w: access token", ErrAlreadyAssigned)
	}
	if token == "" {
		return fmt.Errorf("access token is empty")
	}
	s.token = token
	return nil
}

func (s *Session) Token() AccessToken {
	return s.token
}

func (s *Session) SetArtifact(artifact Artifact) error {
	if s.artifact != nil {
		return fmt.Errorf("%w: artifact", ErrAlreadyAssigned)
	}
	s.artifact = &artifact
	return nil
}

func (s *Session) Artifact() (Artifact, bool) {
	if s.artifact == nil {
		return Artifact{}, false
	}
	return *s.artifact, true
}

func (s *Session) Phase(step Step) PhaseRecord {
	return s.phases[step]
}

// Advance moves one phase record forward, enforcing step ordering. The
// server step reaches done only through MarkServerReady.
func (s *Session) Advance(step Step, to Phase, label string) error {
	record, ok := s.phases[step]
	if !ok {
		return fmt.Errorf("unknown step %q", step)
	}

	if to == PhaseStarted || to == PhaseDone {
		if dep, ok := dependencies[step]; ok && s.phases[dep].Phase != PhaseDone {
			return fmt.Errorf("%w: %s requires %s", ErrPhaseOrder, step, dep)
		}
	}
	if step == StepServer && to == PhaseDone && s.connectionURL == "" {
		return fmt.Errorf("%w: server done without connection", ErrPhaseOrder)
	}

	next, err := record.Advance(to, label)
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	s.phases[step] = next
	return nil
}

// MarkServerReady assigns the endpoint and the connection together with
// moving the server step to done.
func (s *Session) MarkServerReady(endpoint Endpoint, url string, label string) error {
	if s.endpoint != nil {
		return fmt.Errorf("%w: endpoint", ErrAlreadyAssigned)
	}
	if url == "" {
		return fmt.Errorf("connection url is empty")
	}
	if s.phases[StepServer].Phase != PhaseStarted {
		return fmt.Errorf("%w: server is %s", ErrPhaseOrder, s.phases[StepServer].Phase)
	}

	s.connectionURL = url
	if err := s.Advance(StepServer, PhaseDone, label); err != nil {
		s.connectionURL = ""
		return err
	}
	s.endpoint = &endpoint
	return nil
}

func (s *Session) Endpoint() (Endpoint, bool) {
	if s.endpoint == nil {
		return Endpoint{}, false
	}
	return *s.endpoint, true
}

// SetConnectionURL replaces the reachable URL, e.g. with a tunnel URL.
func (s *Session) SetConnectionURL(url string) error {
	if s.phases[StepServer].Phase != PhaseDone {
		return fmt.Errorf("%w: no connection before server is done", ErrPhaseOrder)
	}
	if url == "" {
		return fmt.Errorf("connection url is empty")
	}
	s.connectionURL = url
	return nil
}

func (s *Session) ConnectionURL() string {
	return s.connectionURL
}

// Relabel changes a step's label without moving its phase.
func (s *Session) Relabel(step Step, label string) {
	record, ok := s.phases[step]
	if !ok || label == "" {
		return
	}
	record.Label = label
	s.phases[step] = record
}

func (s *Session) SetDetails(details Details) {
	s.details = &details
}

// StartDownload records a transfer start. A transfer that starts after an
// interrupted one opens a fresh download cycle; one that starts while the
// record is already done (inside a hold window) leaves the record alone.
func (s *Session) StartDownload(label string) error {
	if s.phases[StepDownload].Phase == PhaseErrored {
		s.restartDownloadCycle("")
	}
	if s.phases[StepDownload].Phase != PhasePending {
		return nil
	}

	s.progress = 0
	return s.Advance(StepDownload, PhaseStarted, label)
}

func (s *Session) SetProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.progress = fraction
}

// CompleteDownload counts a finished transfer and sets the hold deadline.
// A completion that follows an interrupted overlapping transfer closes a
// fresh cycle.
func (s *Session) CompleteDownload(now time.Time, hold time.Duration, label string) error {
	if s.phases[StepDownload].Phase == PhaseErrored {
		s.restartDownloadCycle("")
	}
	s.downloads++
	s.progress = 1

	switch s.phases[StepDownload].Phase {
	case PhasePending:
		if err := s.Advance(StepDownload, PhaseStarted, ""); err != nil {
			return err
		}
		fallthrough
	case PhaseStarted:
		if err := s.Advance(StepDownload, PhaseDone, label); err != nil {
			return err
		}
	}

	s.holdUntil = now.Add(hold)
	return nil
}

func (s *Session) AbortDownload(label string) error {
	if s.phases[StepDownload].Phase != PhaseStarted {
		return nil
	}
	return s.Advance(StepDownload, PhaseErrored, label)
}

// KeepServing clears the hold and opens a new download cycle. It reports
// whether a hold was active.
func (s *Session) KeepServing(label string) bool {
	held := !s.holdUntil.IsZero()
	s.holdUntil = time.Time{}
	if s.phases[StepDownload].Phase.Terminal() {
		s.restartDownloadCycle(label)
	}
	return held
}

func (s *Session) RequestShutdown() {
	s.shutdownRequested = true
	s.holdUntil = time.Time{}
}

func (s *Session) HoldUntil() time.Time {
	return s.holdUntil
}

func (s *Session) Downloads() int {
	return s.downloads
}

func (s *Session) restartDownloadCycle(label string) {
	if label == "" {
		label = defaultLabels[StepDownload]
	}
	s.progress = 0
	s.phases[StepDownload] = NewPhaseRecord(label)
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Token:             s.token,
		ConnectionURL:     s.connectionURL,
		File:              s.phases[StepFile],
		Server:            s.phases[StepServer],
		Tunnel:            s.phases[StepTunnel],
		Clipboard:         s.phases[StepClipboard],
		Download:          s.phases[StepDownload],
		Downloads:         s.downloads,
		Progress:          s.progress,
		HoldUntil:         s.holdUntil,
		ShutdownRequested: s.shutdownRequested,
	}
	if s.endpoint != nil {
		snap.Endpoint = *s.endpoint
	}
	if s.details != nil {
		details := *s.details
		snap.Details = &details
	}
	return snap
}

// Snapshot is a read-only copy of a Session handed to observers.
type Snapshot struct {
	Token             AccessToken
	Endpoint          Endpoint
	ConnectionURL     string
	File              PhaseRecord
	Server            PhaseRecord
	Tunnel            PhaseRecord
	Clipboard         PhaseRecord
	Download          PhaseRecord
	Downloads         int
	Progress          float64
	HoldUntil         time.Time
	ShutdownRequested bool
	Details           *Details
}

func (s Snapshot) Phase(step Step) PhaseRecord {
	switch step {
	case StepFile:
		return s.File
	case StepServer:
		return s.Server
	case StepTunnel:
		return s.Tunnel
	case StepClipboard:
		return s.Clipboard
	case StepDownload:
		return s.Download
	default:
		return PhaseRecord{}
	}
}

func (s Snapshot) Holding() bool {
	return !s.HoldUntil.IsZero()
}
