// Package debate implements the two-model debate engine: an in-memory
// session store, the turn scheduler that alternates speakers over a bounded
// context window, and an optional in-process driver.
package debate

import (
	"sync"
	"time"

	"github.com/pocketmind/relay/internal/ai"
)

type Speaker string

const (
	SpeakerSystem Speaker = "system"
	SpeakerFirst  Speaker = "ai1"
	SpeakerSecond Speaker = "ai2"
)

func (s Speaker) DisplayName() string {
	switch s {
	case SpeakerFirst:
		return "AI-1"
	case SpeakerSecond:
		return "AI-2"
	default:
		return "System"
	}
}

func (s Speaker) Other() Speaker {
	if s == SpeakerFirst {
		return SpeakerSecond
	}
	return SpeakerFirst
}

// RoundLimit is either a finite positive round count or unbounded.
type RoundLimit struct {
	Rounds   int
	Infinite bool
}

// Reached reports whether completed rounds exhaust the limit.
func (l RoundLimit) Reached(completed int) bool {
	return !l.Infinite && completed >= l.Rounds
}

// Turn is one immutable transcript entry.
type Turn struct {
	Speaker     Speaker   `json:"speaker"`
	SpeakerName string    `json:"speaker_name"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Participant is one side of a debate, fixed at session creation.
type Participant struct {
	Backend ai.Backend
}

// Session holds one debate's full state. Identity, participants, topic and
// limit are immutable after creation. turnMu serializes Advance so at most
// one turn is in flight per session; mu guards the mutable fields so Stop
// and Inspect never wait behind an in-flight model call.
type Session struct {
	ID        string
	Topic     string
	First     Participant
	Second    Participant
	Limit     RoundLimit
	CreatedAt time.Time

	turnMu sync.Mutex

	mu            sync.RWMutex
	rounds        int
	nextSpeaker   Speaker
	transcript    []Turn
	lastUtterance string
	active        bool
	touched       time.Time
}

func newSession(id, topic string, first, second Participant, limit RoundLimit) *Session {
	now := time.Now()
	s := &Session{
		ID:            id,
		Topic:         topic,
		First:         first,
		Second:        second,
		Limit:         limit,
		CreatedAt:     now,
		nextSpeaker:   SpeakerFirst,
		lastUtterance: topic,
		active:        true,
		touched:       now,
	}
	s.transcript = append(s.transcript, Turn{
		Speaker:     SpeakerSystem,
		SpeakerName: SpeakerSystem.DisplayName(),
		Role:        "system",
		Content:     topic,
		CreatedAt:   now,
	})
	return s
}

// Status is a read-only snapshot of a session's observable state.
type Status struct {
	Transcript  []Turn
	Rounds      int
	Limit       RoundLimit
	Active      bool
	NextSpeaker Speaker
}

func (s *Session) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transcript := make([]Turn, len(s.transcript))
	copy(transcript, s.transcript)
	return Status{
		Transcript:  transcript,
		Rounds:      s.rounds,
		Limit:       s.Limit,
		Active:      s.active,
		NextSpeaker: s.nextSpeaker,
	}
}

// Stop deactivates the session. Idempotent; returns the round count at the
// time of the call.
func (s *Session) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	return s.rounds
}

func (s *Session) participant(sp Speaker) Participant {
	if sp == SpeakerSecond {
		return s.Second
	}
	return s.First
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}

func (s *Session) touchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched
}

func (s *Session) isActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}
