package transport

import (
	"context"
	"sync"
	"time"

	ws "nhooyr.io/websocket"

	"go-chessd"
	"go-chessd/session"
)

var log = chessd.Debug.WithField("component", "transport")

const writeTimeout = 10 * time.Second

// wsEndpoint adapts a WebSocket connection to session.Endpoint. Sends
// are serialized by writeMu so concurrent Send calls from different
// game goroutines can never interleave a frame.
type wsEndpoint struct {
	conn   *ws.Conn
	handle chessd.Handle

	writeMu sync.Mutex
	closed  bool

	subMu     sync.RWMutex
	gameID    string
	color     chessd.Color
	subscribed bool
}

func newEndpoint(conn *ws.Conn, h chessd.Handle) *wsEndpoint {
	return &wsEndpoint{conn: conn, handle: h}
}

func (e *wsEndpoint) Send(route, action string, payload interface{}, correlationID string) {
	data, err := encodeEnvelope(route, action, payload, correlationID)
	if err != nil {
		log.WithError(err).Error("failed to encode outbound message")
		return
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := e.conn.Write(ctx, ws.MessageText, data); err != nil {
		log.WithError(err).Debug("write failed, marking endpoint closed")
		e.closed = true
	}
}

func (e *wsEndpoint) IsOpen() bool {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return !e.closed
}

func (e *wsEndpoint) markClosed() {
	e.writeMu.Lock()
	e.closed = true
	e.writeMu.Unlock()
}

func (e *wsEndpoint) Subscription() (gameID string, color chessd.Color, ok bool) {
	e.subMu.RLock()
	defer e.subMu.RUnlock()
	return e.gameID, e.color, e.subscribed
}

func (e *wsEndpoint) SetSubscription(gameID string, color chessd.Color) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.gameID = gameID
	e.color = color
	e.subscribed = true
}

func (e *wsEndpoint) ClearSubscription() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.gameID = ""
	e.subscribed = false
}

func (e *wsEndpoint) Handle() chessd.Handle {
	return e.handle
}

var _ session.Endpoint = (*wsEndpoint)(nil)
