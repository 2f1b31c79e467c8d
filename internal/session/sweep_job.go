package session

import (
	"github.com/rs/zerolog"
)

// SweepJob removes idle sessions from the store
type SweepJob struct {
	store *Store
	log   zerolog.Logger
}

// NewSweepJob creates a new session sweep job
func NewSweepJob(store *Store, log zerolog.Logger) *SweepJob {
	return &SweepJob{
		store: store,
		log:   log.With().Str("job", "session_sweep").Logger(),
	}
}

func (j *SweepJob) Run() error {
	if removed := j.store.Sweep(); removed > 0 {
		j.log.Info().
			Int("removed", removed).
			Int("remaining", j.store.Len()).
			Msg("Swept idle sessions")
	}
	return nil
}

func (j *SweepJob) Name() string {
	return "session_sweep"
}
