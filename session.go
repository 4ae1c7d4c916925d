package hxwidget

import (
	"context"
	"fmt"
	"sync"

	"pkt.systems/pslog"
)

// Sessions partitions widget state by session id.
//
// The mutex only guards the session map. Each SessionState is owned by
// one session and is used by one script run at a time.
type Sessions struct {
	mu        sync.RWMutex
	sessions  map[string]*SessionState
	encoder   *Encoder
	sensitive bool
	opts      []SessionOption
}

// NewSessions creates a session partition whose frontend state tokens are
// protected with the given key. Options apply to every new session.
func NewSessions(key []byte, opts ...SessionOption) *Sessions {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxwidget: failed to create encoder: %v", err))
	}
	return &Sessions{
		sessions: make(map[string]*SessionState),
		encoder:  enc,
		opts:     opts,
	}
}

// Sensitive makes frontend state tokens encrypted instead of signed.
func (s *Sessions) Sensitive() *Sessions {
	s.sensitive = true
	return s
}

// Encoder returns the encoder used for frontend state tokens.
func (s *Sessions) Encoder() *Encoder {
	return s.encoder
}

// Get returns the state of a session, creating it on first use.
func (s *Sessions) Get(id string) *SessionState {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return state
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.sessions[id]; ok {
		return state
	}
	state = NewSessionState(id, s.opts...)
	s.sessions[id] = state
	return state
}

// Drop forgets a session and all its widget state.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// BeginRun starts a script run for a session from a frontend state token.
// An empty token means the frontend reported nothing.
func (s *Sessions) BeginRun(ctx context.Context, sessionID, token string) (*ScriptRun, error) {
	values := WidgetValues{}
	if token != "" {
		decoded, err := DecodeWidgetValues(s.encoder, token, s.sensitive)
		if err != nil {
			pslog.Ctx(ctx).Warn("rejected frontend state token", "session", sessionID, "err", err)
			return nil, err
		}
		values = decoded
	}
	return s.Get(sessionID).BeginRun(ctx, values), nil
}

// StateToken encodes frontend values into a token accepted by BeginRun.
func (s *Sessions) StateToken(values WidgetValues) (string, error) {
	return EncodeWidgetValues(s.encoder, values, s.sensitive)
}
