// Package wsserver serves live editing sessions over WebSocket.
//
// Each connection owns one event loop and one editor session. Text frames
// carry JSON gestures and commands, binary frames carry uploaded images.
// The server answers with binary frames for every export and JSON frames
// for state, file size, download and error messages.
package wsserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/avatarcrop/pkg/adapters/eventloop"
	"github.com/user/avatarcrop/pkg/adapters/sourceloader"
	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/ports"
)

//go:embed index.html
var indexHTML []byte

// ErrUnsupportedSource is reported when a client asks to load something
// other than an http(s) or data URL.
var ErrUnsupportedSource = errors.New("unsupported source")

// Options configures the server.
type Options struct {
	Editor         editor.Options
	FrameInterval  time.Duration // Event loop frame interval (default: 16ms)
	MaxUploadBytes int64         // Largest accepted frame (default: 20 MB)
	PingInterval   time.Duration // Keepalive ping period (default: 20s)
	ReadTimeout    time.Duration // Idle read deadline, extended by pongs (default: 60s)
	WriteTimeout   time.Duration // Per-frame write deadline (default: 10s)
	AllowRemote    bool          // Let "load" fetch http(s) URLs (default: data URLs only)
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Editor:         editor.DefaultOptions(),
		FrameInterval:  eventloop.DefaultFrameInterval,
		MaxUploadBytes: 20 << 20,
		PingInterval:   20 * time.Second,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FrameInterval <= 0 {
		o.FrameInterval = d.FrameInterval
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = d.MaxUploadBytes
	}
	if o.PingInterval <= 0 {
		o.PingInterval = d.PingInterval
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = d.ReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = d.WriteTimeout
	}
	return o
}

// Server serves the editor page and its WebSocket endpoint.
type Server struct {
	renderer ports.Renderer
	loader   ports.ImageLoader
	logger   ports.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// New creates a Server. When normalizer is non-nil every loaded image is
// normalized before it is opened.
func New(renderer ports.Renderer, loader ports.ImageLoader, normalizer ports.Normalizer, logger ports.Logger, opts Options) *Server {
	if normalizer != nil {
		loader = &normalizingLoader{inner: loader, normalizer: normalizer}
	}
	return &Server{
		renderer: renderer,
		loader:   loader,
		logger:   logger.WithComponent("wsserver"),
		opts:     opts.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 << 10,
		},
	}
}

// Handler returns the HTTP handler: the editor page at / and the
// WebSocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.Handle("/ws", s)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("Listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// ServeHTTP upgrades the request and runs one editing session until the
// client disconnects or the request context ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed: %s", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.logger.Info("Client connected: %s", r.RemoteAddr)
	c := newClient(conn, s.opts, s.logger)
	loop := eventloop.New(s.opts.FrameInterval)

	go loop.Run(ctx)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx)
	}()

	var session *editor.Session
	if err := loop.Do(ctx, func() {
		session = editor.NewSession(s.renderer, s.loader, loop, s.logger, s.opts.Editor)
		session.OnImageEdit(c.sendExport)
		session.OnFileSize(func(label string) {
			c.sendJSON(sizeMessage{Type: "size", Label: label, Caption: session.DownloadCaption()})
		})
	}); err != nil {
		conn.Close()
		return
	}

	s.readLoop(ctx, c, loop, session)

	closeCtx, closeCancel := context.WithTimeout(ctx, time.Second)
	loop.Do(closeCtx, session.Close)
	closeCancel()

	cancel()
	<-writerDone
	s.logger.Info("Client disconnected: %s", r.RemoteAddr)
}

func (s *Server) readLoop(ctx context.Context, c *client, loop ports.EventLoop, session *editor.Session) {
	conn := c.conn
	conn.SetReadLimit(s.opts.MaxUploadBytes)
	conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		return nil
	})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("WebSocket read error: %s", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))

		var run func()
		switch messageType {
		case websocket.TextMessage:
			run = s.handleText(ctx, c, session, message)
		case websocket.BinaryMessage:
			run = s.handleUpload(ctx, c, session, message)
		}
		if run == nil {
			continue
		}
		if err := loop.Do(ctx, run); err != nil {
			return
		}
	}
}

// handleText decodes a JSON command and returns the loop task that applies it.
func (s *Server) handleText(ctx context.Context, c *client, session *editor.Session, message []byte) func() {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError(fmt.Errorf("invalid message: %w", err))
		return nil
	}

	switch msg.Type {
	case "load":
		if !s.acceptSource(msg.Source) {
			c.sendError(fmt.Errorf("%w: %q", ErrUnsupportedSource, msg.Source))
			return nil
		}
		return func() { s.load(ctx, c, session, msg.Source) }
	case "download":
		return func() {
			artifact, err := session.Download()
			if err != nil {
				c.sendError(err)
				return
			}
			c.sendJSON(downloadMessage{
				Type:    "download",
				Name:    artifact.Name,
				Caption: session.DownloadCaption(),
				Data:    sourceloader.EncodeDataURL(artifact.Format.MediaType(), artifact.Data),
			})
		}
	case "state":
		return func() { c.sendState(session) }
	}

	ev := msg.Event
	return func() {
		if isTouch(ev.Type) {
			c.touch = true
		}
		if err := session.Dispatch(ev); err != nil {
			c.sendError(err)
			return
		}
		c.sendState(session)
	}
}

// handleUpload treats a binary frame as an uploaded image file.
func (s *Server) handleUpload(ctx context.Context, c *client, session *editor.Session, data []byte) func() {
	if len(data) == 0 {
		c.sendError(errors.New("empty upload"))
		return nil
	}
	s.logger.Debug("Received upload of %d bytes", len(data))
	source := sourceloader.EncodeDataURL("", data)
	return func() { s.load(ctx, c, session, source) }
}

// load runs on the loop.
func (s *Server) load(ctx context.Context, c *client, session *editor.Session, source string) {
	session.Load(ctx, source, func(err error) {
		if err != nil {
			c.sendError(err)
			return
		}
		c.sendState(session)
	})
}

// acceptSource reports whether a "load" source may be opened. Data URLs
// always are; http(s) URLs only with AllowRemote.
func (s *Server) acceptSource(source string) bool {
	if strings.HasPrefix(source, "data:") {
		return true
	}
	return s.opts.AllowRemote && remoteSource(source)
}

func remoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isTouch(t editor.EventType) bool {
	switch t {
	case editor.EventTouchStart, editor.EventTouchMove, editor.EventTouchEnd, editor.EventPinch:
		return true
	}
	return false
}

// normalizingLoader normalizes every image its inner loader returns.
type normalizingLoader struct {
	inner      ports.ImageLoader
	normalizer ports.Normalizer
}

func (l *normalizingLoader) Load(ctx context.Context, source string) (image.Image, error) {
	img, err := l.inner.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	normalized, _, err := l.normalizer.Normalize(img)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return normalized, nil
}

var _ ports.ImageLoader = (*normalizingLoader)(nil)
