package debate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketmind/relay/internal/ai"
	"github.com/pocketmind/relay/internal/common"
)

const (
	defaultContextWindow = 6
	defaultRounds        = 10

	// DefaultTopic seeds a debate started without one.
	DefaultTopic = "Let's debate the future of artificial intelligence"
)

// Service is the turn scheduler: it owns session lifecycle and advances a
// debate by exactly one turn per call.
type Service struct {
	store    *Store
	registry *ai.Registry
	window   int
}

func NewService(store *Store, registry *ai.Registry, window int) *Service {
	if window <= 0 || window > 50 {
		window = defaultContextWindow
	}
	return &Service{store: store, registry: registry, window: window}
}

type StartParams struct {
	Topic  string
	First  ai.Backend
	Second ai.Backend
	Limit  RoundLimit
}

// Start validates both participants and registers a new active session with
// a single system turn carrying the topic.
func (s *Service) Start(p StartParams) (*Session, error) {
	first := p.First.Normalize()
	second := p.Second.Normalize()
	if err := first.Validate(); err != nil {
		return nil, common.E(common.KindOf(err), "first participant: %v", err)
	}
	if err := second.Validate(); err != nil {
		return nil, common.E(common.KindOf(err), "second participant: %v", err)
	}

	topic := strings.TrimSpace(p.Topic)
	if topic == "" {
		topic = DefaultTopic
	}

	limit := p.Limit
	if limit.Infinite {
		limit.Rounds = 0
	} else {
		if limit.Rounds < 0 {
			return nil, common.E(common.ErrInvalidArgument, "round limit must be positive")
		}
		if limit.Rounds == 0 {
			limit.Rounds = defaultRounds
		}
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}

	sess := newSession(id, topic, Participant{Backend: first}, Participant{Backend: second}, limit)
	s.store.Put(sess)
	return sess, nil
}

// AdvanceResult reports one Advance call. Finished means the round limit was
// already exhausted and no turn was produced; LastRound marks the turn that
// exhausted it.
type AdvanceResult struct {
	Finished  bool
	Turn      *Turn
	Rounds    int
	Limit     RoundLimit
	Next      Speaker
	LastRound bool
}

// Advance moves a session forward by one turn: select the speaker, compose
// the bounded prompt, call the backend, record the result. A failed backend
// call leaves the session unchanged. Advances for the same session are
// serialized; the session's state lock is released for the duration of the
// model call so Stop and Inspect stay responsive.
func (s *Service) Advance(ctx context.Context, id string) (AdvanceResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return AdvanceResult{}, err
	}

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	speaker, prompt, rounds, finished, err := s.beginTurn(sess)
	if err != nil {
		return AdvanceResult{}, err
	}
	if finished {
		return AdvanceResult{Finished: true, Rounds: rounds, Limit: sess.Limit}, nil
	}

	prov, err := s.registry.Get(sess.participant(speaker).Backend)
	if err != nil {
		return AdvanceResult{}, err
	}

	text, err := prov.Generate(ctx, prompt)
	if err != nil {
		return AdvanceResult{}, err
	}

	return s.commitTurn(sess, speaker, text)
}

// beginTurn reads the state needed for one turn under the session lock.
// When the finite round limit is already exhausted it deactivates the
// session and reports completion instead.
func (s *Service) beginTurn(sess *Session) (speaker Speaker, prompt string, rounds int, finished bool, err error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.active {
		return "", "", 0, false, common.E(common.ErrInactive, "debate is not active: %s", sess.ID)
	}
	if sess.Limit.Reached(sess.rounds) {
		sess.active = false
		return "", "", sess.rounds, true, nil
	}

	speaker = sess.nextSpeaker
	window := sess.transcript
	if len(window) > s.window {
		window = window[len(window)-s.window:]
	}
	prompt = buildPrompt(speaker, window, sess.lastUtterance)
	return speaker, prompt, 0, false, nil
}

// commitTurn records a successful turn. If the session was stopped while the
// model call was in flight the turn is discarded.
func (s *Service) commitTurn(sess *Session, speaker Speaker, text string) (AdvanceResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.active {
		return AdvanceResult{}, common.E(common.ErrInactive, "debate stopped during turn: %s", sess.ID)
	}

	turn := Turn{
		Speaker:     speaker,
		SpeakerName: speaker.DisplayName(),
		Role:        "assistant",
		Content:     text,
		CreatedAt:   time.Now(),
	}
	sess.transcript = append(sess.transcript, turn)
	sess.rounds++
	sess.lastUtterance = text
	sess.nextSpeaker = speaker.Other()

	return AdvanceResult{
		Turn:      &turn,
		Rounds:    sess.rounds,
		Limit:     sess.Limit,
		Next:      sess.nextSpeaker,
		LastRound: sess.Limit.Reached(sess.rounds),
	}, nil
}

// Stop deactivates a session. Stopping an already-stopped session is a
// no-op success.
func (s *Service) Stop(id string) (int, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return 0, err
	}
	return sess.Stop(), nil
}

func (s *Service) Inspect(id string) (Status, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return Status{}, err
	}
	return sess.Snapshot(), nil
}

func buildPrompt(speaker Speaker, window []Turn, last string) string {
	lines := make([]string, 0, len(window))
	for _, t := range window {
		if t.Speaker == SpeakerSystem {
			lines = append(lines, "Topic: "+t.Content)
		} else {
			lines = append(lines, t.SpeakerName+": "+t.Content)
		}
	}

	me := speaker.DisplayName()
	them := speaker.Other().DisplayName()
	return fmt.Sprintf(`You are %s, debating against %s. The conversation so far:

%s

Last message: %s

Now respond. Take your opponent's last point into account and make a short, clear argument (2-3 sentences at most). State only your own position, nothing else.`,
		me, them, strings.Join(lines, "\n"), last)
}
