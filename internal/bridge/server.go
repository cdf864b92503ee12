// Package bridge connects the editor frontend to the backend over a
// localhost WebSocket. Requests call the file commands and menu actions;
// every bus event is pushed to each connected client.
package bridge

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/danieljhkim/rpgedit/internal/events"
)

// DefaultQueueSize bounds the frames buffered for one client.
const DefaultQueueSize = 64

const writeTimeout = 5 * time.Second

var (
	// ErrMethodNotFound is returned for requests naming no handler.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidParams is returned for malformed request payloads.
	ErrInvalidParams = errors.New("invalid params")
)

// Handler answers one request method.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// EventSource is the part of events.Bus the server forwards from.
type EventSource interface {
	SubscribeAll(fn events.Listener) func()
}

// Options configures a Server.
type Options struct {
	Addr      string
	Token     string
	QueueSize int
	Logger    *slog.Logger
}

type client struct {
	id        uint64
	ws        *websocket.Conn
	sendCh    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Server is the WebSocket bridge.
type Server struct {
	source    EventSource
	addr      string
	token     string
	queueSize int
	logger    *slog.Logger

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	clientsMu sync.Mutex
	clients   map[uint64]*client
	nextID    atomic.Uint64

	httpSrv   *http.Server
	boundAddr string
	ready     chan struct{}
	stopOnce  sync.Once
	unsubAll  func()
}

// NewServer creates a bridge forwarding events from source.
func NewServer(source EventSource, opts Options) *Server {
	if opts.QueueSize < 1 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		source:    source,
		addr:      opts.Addr,
		token:     opts.Token,
		queueSize: opts.QueueSize,
		logger:    opts.Logger,
		handlers:  make(map[string]Handler),
		clients:   make(map[uint64]*client),
		ready:     make(chan struct{}),
	}
}

// Handle registers h for method. Safe to call while clients are connected.
func (s *Server) Handle(method string, h Handler) {
	s.handlersMu.Lock()
	s.handlers[method] = h
	s.handlersMu.Unlock()
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() string { return s.boundAddr }

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()
	s.httpSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	s.unsubAll = s.source.SubscribeAll(s.broadcast)
	close(s.ready)

	s.logger.Info("bridge started", slog.String("addr", s.boundAddr))

	go func() {
		<-ctx.Done()
		if err := s.Stop(context.Background()); err != nil {
			s.logger.Warn("bridge shutdown failed", slog.String("error", err.Error()))
		}
	}()

	if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge serve: %w", err)
	}
	return nil
}

// Stop disconnects all clients and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		if s.unsubAll != nil {
			s.unsubAll()
		}

		s.clientsMu.Lock()
		for id, c := range s.clients {
			c.close()
			_ = c.ws.Close(websocket.StatusGoingAway, "server shutting down")
			delete(s.clients, id)
		}
		s.clientsMu.Unlock()

		if s.httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err = s.httpSrv.Shutdown(shutdownCtx)
		}
	})
	return err
}

func (s *Server) broadcast(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode event", slog.String("channel", string(event.Channel)), slog.String("error", err.Error()))
		return
	}
	frame := Frame{Type: FrameTypeEvent, Payload: payload}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, c := range s.clients {
		select {
		case c.sendCh <- frame:
		default:
			s.logger.Warn("dropped event for slow client",
				slog.Uint64("conn_id", c.id),
				slog.String("channel", string(event.Channel)),
			)
		}
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	got := r.URL.Query().Get("token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{
			"localhost",
			"localhost:*",
			"127.0.0.1",
			"127.0.0.1:*",
			"[::1]",
			"[::1]:*",
		},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		id:     s.nextID.Add(1),
		ws:     ws,
		sendCh: make(chan Frame, s.queueSize),
		done:   make(chan struct{}),
	}
	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	s.logger.Info("bridge client connected", slog.Uint64("conn_id", c.id))

	go s.writeLoop(c)
	s.readLoop(r.Context(), c)

	c.close()
	s.clientsMu.Lock()
	delete(s.clients, c.id)
	s.clientsMu.Unlock()
	_ = ws.Close(websocket.StatusNormalClosure, "")
	s.logger.Info("bridge client disconnected", slog.Uint64("conn_id", c.id))
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		var frame Frame
		if err := wsjson.Read(ctx, c.ws, &frame); err != nil {
			return
		}
		if frame.Type != FrameTypeRequest {
			continue
		}
		go s.dispatch(ctx, c, frame)
	}
}

func (s *Server) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := wsjson.Write(ctx, c.ws, frame)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatch(ctx context.Context, c *client, req Frame) {
	s.handlersMu.RLock()
	h, ok := s.handlers[req.Method]
	s.handlersMu.RUnlock()
	if !ok {
		s.respond(c, req.ID, nil, fmt.Errorf("%w: %q", ErrMethodNotFound, req.Method))
		return
	}

	result, err := h(ctx, req.Payload)
	if err != nil {
		s.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("error", err.Error()),
		)
	}
	s.respond(c, req.ID, result, err)
}

func (s *Server) respond(c *client, id uint64, result any, err error) {
	resp := Frame{Type: FrameTypeResponse, ID: id}
	if err != nil {
		resp.Error = err.Error()
	} else if result != nil {
		payload, encErr := json.Marshal(result)
		if encErr != nil {
			resp.Error = fmt.Sprintf("encode result: %v", encErr)
		} else {
			resp.Payload = payload
		}
	}

	select {
	case c.sendCh <- resp:
	case <-c.done:
	default:
		s.logger.Warn("dropped response for slow client", slog.Uint64("conn_id", c.id), slog.Uint64("frame_id", id))
	}
}
