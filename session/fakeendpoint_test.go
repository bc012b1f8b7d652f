package session_test

import (
	"sync"

	"go-chessd"
	"go-chessd/session"
)

type sentMessage struct {
	route, action string
	payload       interface{}
	correlationID string
}

// fakeEndpoint is a minimal session.Endpoint recording everything sent
// to it, standing in for a real transport connection in tests.
type fakeEndpoint struct {
	handle chessd.Handle

	mu   sync.Mutex
	open bool
	sent []sentMessage

	gameID     string
	color      chessd.Color
	subscribed bool
}

func newFakeEndpoint(h chessd.Handle) *fakeEndpoint {
	return &fakeEndpoint{handle: h, open: true}
}

func (e *fakeEndpoint) Send(route, action string, payload interface{}, correlationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, sentMessage{route, action, payload, correlationID})
}

func (e *fakeEndpoint) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *fakeEndpoint) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

func (e *fakeEndpoint) Subscription() (string, chessd.Color, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameID, e.color, e.subscribed
}

func (e *fakeEndpoint) SetSubscription(gameID string, color chessd.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gameID = gameID
	e.color = color
	e.subscribed = true
}

func (e *fakeEndpoint) ClearSubscription() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribed = false
}

func (e *fakeEndpoint) Handle() chessd.Handle {
	return e.handle
}

func (e *fakeEndpoint) lastAction() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sent) == 0 {
		return ""
	}
	return e.sent[len(e.sent)-1].action
}

func (e *fakeEndpoint) actions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.sent))
	for i, m := range e.sent {
		out[i] = m.action
	}
	return out
}

func (e *fakeEndpoint) has(action string) bool {
	for _, a := range e.actions() {
		if a == action {
			return true
		}
	}
	return false
}

var _ session.Endpoint = (*fakeEndpoint)(nil)
