// Package session tracks per-conversation state: the user's name and
// activity timestamps. State lives for the process lifetime only; a sweep
// loop evicts conversations inactive for longer than the configured age.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vregbot/app/config"

	"github.com/samber/do"
)

// Session is a point-in-time copy of a conversation's state.
type Session struct {
	ConversationID string
	UserName       string
	CreatedAt      time.Time
	LastActivity   time.Time
}

// HasName reports whether a user name has been captured.
func (s Session) HasName() bool {
	return s.UserName != ""
}

type record struct {
	userName     string
	createdAt    time.Time
	lastActivity time.Time
}

type Service struct {
	cfg *config.Config

	mu       sync.Mutex
	sessions map[string]*record
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		sessions: make(map[string]*record),
	}, nil
}

// GetOrCreate returns the session for id, creating it on first sight.
// Every call bumps last_activity.
func (s *Service) GetOrCreate(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	rec, ok := s.sessions[id]
	if !ok {
		rec = &record{createdAt: now, lastActivity: now}
		s.sessions[id] = rec
	} else {
		rec.lastActivity = now
	}

	return s.snapshotLocked(id, rec)
}

// SetNameIfAbsent records the user's name unless one is already set, so
// concurrent turns on the same conversation cannot overwrite each other. It
// returns the name now recorded, which is the existing one when the call
// lost the race, or "" when the session does not exist.
func (s *Service) SetNameIfAbsent(id, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return ""
	}

	if rec.userName == "" {
		rec.userName = name
	}
	rec.lastActivity = time.Now()

	return rec.userName
}

// GetName returns the recorded name for id, if any.
func (s *Service) GetName(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok || rec.userName == "" {
		return "", false
	}

	return rec.userName, true
}

// ResetName clears the recorded name. This is the explicit out-of-band reset
// collaborator behind the reset endpoint; nothing else ever unsets a name.
func (s *Service) ResetName(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return
	}

	rec.userName = ""
	rec.lastActivity = time.Now()
}

// Snapshot returns a copy of the session without touching last_activity.
func (s *Service) Snapshot(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}

	return s.snapshotLocked(id, rec), true
}

// Sweep removes sessions whose last activity is older than maxAge and
// returns the number removed.
func (s *Service) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	removed := 0
	for id, rec := range s.sessions {
		if rec.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Count reports the number of live sessions.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// RunSweepLoop periodically evicts stale sessions until ctx is done.
func (s *Service) RunSweepLoop(ctx context.Context) {
	interval := time.Duration(s.cfg.Session.SweepIntervalMinutes) * time.Minute
	maxAge := time.Duration(s.cfg.Session.MaxAgeHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(maxAge); removed > 0 {
				slog.Info("Swept stale sessions", "removed", removed)
			}
		}
	}
}

func (s *Service) snapshotLocked(id string, rec *record) Session {
	return Session{
		ConversationID: id,
		UserName:       rec.userName,
		CreatedAt:      rec.createdAt,
		LastActivity:   rec.lastActivity,
	}
}
