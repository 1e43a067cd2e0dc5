package timers

import (
	"log/slog"
	"sync"
	"time"
)

// Store holds named one-shot jobs backed by the runtime timer facility.
//
// Scheduling a job under an id that is already pending replaces the old
// registration atomically: there is no window in which both are pending, and
// a superseded timer that has already started firing is discarded before its
// callback runs. A job whose instant is already in the past fires
// immediately. Callbacks run on their own goroutine and receive the
// arguments bound at schedule time.
type Store struct {
	logger *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	stopped bool
}

type job struct {
	fireAt time.Time
	timer  *time.Timer
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Schedule registers fn to run once at fireAt under jobID, replacing any
// pending job with the same id.
func (s *Store) Schedule(jobID string, fireAt time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("timer store stopped, job dropped", slog.String("job_id", jobID))
		return
	}

	if old, ok := s.jobs[jobID]; ok {
		old.timer.Stop()
		s.logger.Debug("timer replaced", slog.String("job_id", jobID), slog.Time("fire_at", fireAt))
	} else {
		s.logger.Debug("timer scheduled", slog.String("job_id", jobID), slog.Time("fire_at", fireAt))
	}

	j := &job{fireAt: fireAt}
	j.timer = time.AfterFunc(time.Until(fireAt), func() {
		if !s.claim(jobID, j) {
			// superseded or cancelled between firing and claiming
			return
		}
		fn()
	})
	s.jobs[jobID] = j
}

// claim removes the registration if j is still the current one for jobID.
func (s *Store) claim(jobID string, j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.jobs[jobID]; !ok || cur != j {
		return false
	}
	delete(s.jobs, jobID)
	return true
}

// Cancel removes a pending job. Cancelling an unknown id is a no-op.
func (s *Store) Cancel(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.timer.Stop()
		delete(s.jobs, jobID)
		s.logger.Debug("timer cancelled", slog.String("job_id", jobID))
	}
}

// Exists reports whether a job is pending under jobID.
func (s *Store) Exists(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	return ok
}

// NextFireTime returns the instant a pending job will fire at.
func (s *Store) NextFireTime(jobID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return time.Time{}, false
	}
	return j.fireAt, true
}

// Len returns the number of pending jobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every pending job and rejects further scheduling. Callbacks
// already dispatched run to completion.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, id)
	}
	s.stopped = true
	s.logger.Info("timer store stopped")
}
