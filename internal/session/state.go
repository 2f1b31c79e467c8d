// Package session holds per-user dashboard state on the server.
package session

import (
	"github.com/aristath/stockdash/internal/domain"
)

// State is the dashboard state for one session. It is either empty or holds
// exactly one successful fetch; it is never partially updated.
type State struct {
	snapshot *domain.Snapshot
}

// NewState builds a populated state from a snapshot. A nil snapshot yields the empty state.
func NewState(snap *domain.Snapshot) State {
	return State{snapshot: snap}
}

// Empty reports whether nothing has been fetched yet
func (s State) Empty() bool {
	return s.snapshot == nil
}

// Snapshot returns the underlying fetch result, nil when empty
func (s State) Snapshot() *domain.Snapshot {
	return s.snapshot
}

func (s State) Symbol() string {
	if s.snapshot == nil {
		return ""
	}
	return s.snapshot.Symbol
}

func (s State) Period() domain.Period {
	if s.snapshot == nil {
		return ""
	}
	return s.snapshot.Period
}

func (s State) History() domain.PriceHistory {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.History
}

func (s State) Metadata() domain.Metadata {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Metadata
}
