// Package web exposes the session coordinator over HTTP: the
// WebSocket upgrade endpoint, a health check, and a read-only stats
// snapshot.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	ws "nhooyr.io/websocket"

	"go-chessd"
	"go-chessd/session"
	"go-chessd/stats"
	"go-chessd/transport"
)

var log = chessd.Debug.WithField("component", "web")

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 10 * time.Minute
)

// IdentityResolver authenticates an incoming HTTP request into a
// player handle. How identity is actually established (session
// cookie, bearer token, guest-token header) is a concern of whatever
// the rest of the service uses for login; this package only needs
// the result.
type IdentityResolver func(r *http.Request) (chessd.Handle, error)

// Server is the chess coordinator's HTTP surface.
type Server struct {
	httpServer *http.Server
	manager    *session.Manager
	dispatcher *transport.Dispatcher
	statsSink  *stats.Writer
	identify   IdentityResolver
}

// NewServer wires the WebSocket/healthz/stats routes onto an
// httprouter mux and wraps it in an http.Server with conservative
// timeouts for a plain HTTP listener.
func NewServer(bindAddr string, manager *session.Manager, dispatcher *transport.Dispatcher, statsSink *stats.Writer, identify IdentityResolver) *Server {
	s := &Server{manager: manager, dispatcher: dispatcher, statsSink: statsSink, identify: identify}

	mux := httprouter.New()
	mux.GET("/ws", s.serveWS)
	mux.GET("/healthz", s.serveHealthz)
	mux.GET("/stats", s.serveStats)

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i interface{}) {
		log.WithField("panic", i).Error("panic handling request")
		securityHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)
	}

	s.httpServer = &http.Server{
		Addr:              bindAddr,
		Handler:           mux,
		IdleTimeout:       idleTimeout,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

// Handler returns the underlying HTTP handler, useful for serving it
// from a test server instead of a real listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving HTTP until the listener is closed by
// Shutdown.
func (s *Server) ListenAndServe() error {
	log.WithField("addr", s.httpServer.Addr).Info("listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains every active game (concluding each as Aborted and
// archiving it) before stopping the HTTP listener, so no game state
// is lost on a graceful restart.
func (s *Server) Shutdown(ctx context.Context) error {
	s.manager.DrainAndLogAllGames()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h, err := s.identify(r)
	if err != nil {
		securityHeaders(w)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade connection")
		return
	}

	go s.dispatcher.Serve(context.Background(), conn, h)
}

func (s *Server) serveHealthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Ok\n"))
}

func (s *Server) serveStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s.statsSink.Snapshot()); err != nil {
		log.WithError(err).Error("failed to encode stats snapshot")
	}
}
