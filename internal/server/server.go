// Package server owns the gateway's listening socket and its lifecycle:
// Unbound, then Listening once the address is bound, Closing while
// in-flight requests drain, and finally Closed.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/phrazzld/relay-api/internal/api/apierr"
)

// State is a lifecycle state of a Server.
type State int

// Lifecycle states, in the only order a Server moves through them.
const (
	Unbound State = iota
	Listening
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Listening:
		return "listening"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 10 * time.Second

var (
	// ErrBind is returned by Listen when the address cannot be acquired.
	ErrBind = errors.New("failed to bind listener")

	// ErrState is returned when an operation is not valid in the current state.
	ErrState = errors.New("invalid server state")
)

// Server serves an http.Handler on one TCP address.
type Server struct {
	addr   string
	http   *http.Server
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	listener net.Listener
}

// New creates an unbound Server for addr (host:port, port 0 picks a free one).
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	logger = logger.With("component", "server")
	return &Server{
		addr:   addr,
		logger: logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}
}

// State reports the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address, or nil before Listen succeeds.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the address. The returned error matches ErrBind and carries
// an apierr.KindBind error when the port is unavailable.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Unbound {
		return fmt.Errorf("%w: cannot listen while %s", ErrState, s.state)
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBind, apierr.Bind(s.addr, err))
	}

	s.listener = ln
	s.state = Listening
	s.logger.Debug("listener bound", "addr", ln.Addr().String())
	return nil
}

// Serve accepts connections until Shutdown. It returns nil when the server
// was shut down and the accept error otherwise.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	state := s.state
	s.mu.Unlock()

	if ln == nil {
		return fmt.Errorf("%w: cannot serve while %s", ErrState, state)
	}

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests to
// finish or for ctx to expire, whichever comes first. On expiry the
// remaining connections are closed and ctx's error is returned. Calling
// Shutdown while Closing or Closed is a no-op; from Unbound it goes straight
// to Closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case Unbound:
		s.state = Closed
		s.mu.Unlock()
		return nil
	case Closing, Closed:
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("shutdown already requested", "state", state.String())
		return nil
	}
	s.state = Closing
	s.mu.Unlock()

	s.logger.Info("draining connections")
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("drain timed out, closing remaining connections", "error", err)
		_ = s.http.Close()
	}

	s.mu.Lock()
	s.state = Closed
	s.mu.Unlock()

	s.logger.Info("server closed")
	return err
}
