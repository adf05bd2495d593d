package domain

type TransferEventKind string

const (
	TransferStarted   TransferEventKind = "started"
	TransferProgress  TransferEventKind = "progress"
	TransferCompleted TransferEventKind = "completed"
	TransferAborted   TransferEventKind = "aborted"
)

type TransferEvent struct {
	Kind      TransferEventKind
	RequestID string
	Sent      int64
	Total     int64
	Err       error
}

// Fraction returns Sent/Total clamped to [0, 1].
func (e TransferEvent) Fraction() float64 {
	if e.Total <= 0 {
		if e.Kind == TransferCompleted {
			return 1
		}
		return 0
	}

	f := float64(e.Sent) / float64(e.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
