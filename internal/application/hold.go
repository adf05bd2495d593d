package application

import "time"

// scheduledTask is a single cancellable deadline. The zero value is unarmed
// and its channel is nil, so selecting on it blocks forever.
type scheduledTask struct {
	timer *time.Timer
	after time.Duration
}

// Arm replaces any pending deadline with one that fires after d.
func (t *scheduledTask) Arm(d time.Duration) {
	t.Cancel()
	t.timer = time.NewTimer(d)
	t.after = d
}

func (t *scheduledTask) Cancel() {
	if t.timer == nil {
		return
	}
	t.timer.Stop()
	t.timer = nil
	t.after = 0
}

func (t *scheduledTask) Armed() bool {
	return t.timer != nil
}

func (t *scheduledTask) C() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.C
}
