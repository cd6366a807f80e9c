// Package conversation holds the per-session chat state: the visible
// history, the input slot counter and the model-facing context.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

var (
	// ErrEmptyInput is returned for blank messages. Nothing is changed.
	ErrEmptyInput = errors.New("empty message")
	// ErrBusy is returned when a message is submitted while a reply is
	// still streaming.
	ErrBusy = errors.New("session is awaiting a reply")
)

const groundingPrompt = "You are answering follow-up questions about a YouTube video. " +
	"Use the summary below as context when it is relevant.\n\nSummary:\n"

// State is the session's position in the submit cycle.
type State int

const (
	Idle State = iota
	Awaiting
)

func (s State) String() string {
	if s == Awaiting {
		return "awaiting"
	}
	return "idle"
}

// MarshalText encodes the state as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "awaiting":
		*s = Awaiting
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one entry of the visible chat history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Model selects the model and sampling used for chat replies.
type Model struct {
	Name        string
	Temperature *float32
}

// Exchange is the outcome of one successful Submit.
type Exchange struct {
	User      Turn `json:"user"`
	Bot       Turn `json:"bot"`
	InputSlot int  `json:"input_slot"`
}

// Snapshot is a copy of the session state safe to hand to callers.
type Snapshot struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	InputSlot int       `json:"input_slot"`
	History   []Turn    `json:"history"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one user's conversation. All methods are safe for concurrent
// use; at most one Submit runs at a time.
type Session struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	state     State
	history   []Turn
	inputSlot int
	context   Context
	summary   string
}

// New creates an idle session with empty history.
func New(id string) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now(),
		history:   []Turn{},
	}
}

func (s *Session) ID() string {
	return s.id
}

// Submit sends text to the provider as the next user message and streams
// the reply, calling onDelta (when non-nil) for every chunk. On success the
// user turn and exactly one bot turn holding the whole reply are appended
// and the input slot advances by one. On failure nothing changes.
func (s *Session) Submit(ctx context.Context, provider providers.Provider, model Model, text string, onDelta func(string) error) (*Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == Awaiting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = Awaiting
	messages := s.context.request(text)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = Idle
		s.mu.Unlock()
	}()

	reply, err := stream(ctx, provider, providers.CompletionRequest{
		Messages:    messages,
		Model:       model.Name,
		Temperature: model.Temperature,
		Stream:      true,
	}, onDelta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := Turn{Role: RoleUser, Text: text}
	bot := Turn{Role: RoleBot, Text: reply}
	s.history = append(s.history, user, bot)
	s.context.record(text, reply)
	s.inputSlot++

	return &Exchange{User: user, Bot: bot, InputSlot: s.inputSlot}, nil
}

func stream(ctx context.Context, provider providers.Provider, req providers.CompletionRequest, onDelta func(string) error) (string, error) {
	// Cancelling stops the provider goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, err := provider.StreamComplete(ctx, req)
	if err != nil {
		return "", providers.NewServiceError(provider.Name(), "stream", err)
	}

	var reply strings.Builder
	finished := false
	for chunk := range chunks {
		if chunk.Error != "" {
			return "", providers.NewServiceError(provider.Name(), "stream", errors.New(chunk.Error))
		}
		if chunk.Delta != "" {
			reply.WriteString(chunk.Delta)
			if onDelta != nil {
				if err := onDelta(chunk.Delta); err != nil {
					return "", err
				}
			}
		}
		if chunk.FinishReason != "" {
			finished = true
		}
	}

	if !finished {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", providers.NewServiceError(provider.Name(), "stream", errors.New("stream ended before completion"))
	}
	return reply.String(), nil
}

// Ground makes the latest video summary the context for follow-up
// questions. The visible history and the input slot are untouched.
func (s *Session) Ground(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary = summary
	if strings.TrimSpace(summary) == "" {
		s.context.system = ""
		return
	}
	s.context.system = groundingPrompt + summary
}

// History returns a copy of the visible turns in order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

// InputSlot is the number of completed exchanges. UIs use it to key the
// message input so it is cleared after each send.
func (s *Session) InputSlot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputSlot
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Summary returns the summary the session is grounded on, if any.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		InputSlot: s.inputSlot,
		History:   append([]Turn{}, s.history...),
		Summary:   s.summary,
		CreatedAt: s.createdAt,
	}
}
