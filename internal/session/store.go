// ABOUTME: Per-operator conversation state for the provisioning flow
// ABOUTME: Keyed by chat ID; per-actor locks serialize handling without coupling unrelated actors

package session

import (
	"sync"
)

// Step identifies where an operator is in the provisioning conversation.
type Step int

const (
	// StepIdle means no provisioning flow is in progress.
	StepIdle Step = iota
	// StepAwaitingUsername means the next text message is the new username.
	StepAwaitingUsername
	// StepAwaitingPassword means the next text message is the new password.
	StepAwaitingPassword
	// StepAwaitingProfile means a profile button click is expected.
	StepAwaitingProfile
	// StepAwaitingConfirm means "ya" commits and anything else cancels.
	StepAwaitingConfirm
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepAwaitingUsername:
		return "awaiting_username"
	case StepAwaitingPassword:
		return "awaiting_password"
	case StepAwaitingProfile:
		return "awaiting_profile"
	case StepAwaitingConfirm:
		return "awaiting_confirm"
	default:
		return "unknown"
	}
}

// Draft is the in-progress, not-yet-committed account data collected
// across a conversation. Fields below the current step are populated;
// fields at or above it are still empty.
type Draft struct {
	Username string
	Password string
	Profile  string
	Step     Step
}

// entry pairs a draft with the mutex that serializes its actor's events.
type entry struct {
	mu    sync.Mutex
	draft Draft
}

// Store maps chat IDs to their provisioning drafts. One draft per actor,
// created lazily, replaced wholesale when a flow restarts. Nothing is
// persisted; a process restart drops all in-progress conversations.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

// entryFor returns the entry for chatID, creating it if needed.
func (s *Store) entryFor(chatID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[chatID]
	if !ok {
		e = &entry{}
		s.entries[chatID] = e
	}
	return e
}

// Lock serializes event handling for one actor. Handlers hold the lock
// for the full handling of a single event, including the one backend
// call it may perform; unrelated actors are never blocked.
func (s *Store) Lock(chatID int64) {
	s.entryFor(chatID).mu.Lock()
}

// Unlock releases the actor's lock.
func (s *Store) Unlock(chatID int64) {
	s.entryFor(chatID).mu.Unlock()
}

// Get returns the actor's current draft. Actors without a draft are Idle.
func (s *Store) Get(chatID int64) Draft {
	return s.entryFor(chatID).draft
}

// Set replaces the actor's draft wholesale.
func (s *Store) Set(chatID int64, draft Draft) {
	s.entryFor(chatID).draft = draft
}

// Clear resets the actor's draft to Idle with all fields empty.
func (s *Store) Clear(chatID int64) {
	s.entryFor(chatID).draft = Draft{}
}
