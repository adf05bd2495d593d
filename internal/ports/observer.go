package ports

import "github.com/bnema/share-cli/internal/domain"

// SessionObserver receives a snapshot after every session state change.
type SessionObserver interface {
	Observe(snapshot domain.Snapshot)
}

type SessionObserverFunc func(snapshot domain.Snapshot)

func (f SessionObserverFunc) Observe(snapshot domain.Snapshot) {
	f(snapshot)
}
