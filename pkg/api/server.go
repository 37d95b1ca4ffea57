// Package api serves the product upload service and its debug endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fastjson"

	"github.com/heyjunin/maaw/pkg/auth"
	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/heyjunin/maaw/pkg/notify"
	"github.com/heyjunin/maaw/pkg/processor"
)

// Options carries the collaborators of a Server. Nil fields get defaults.
type Options struct {
	Config    *config.Config
	Debugger  *debugger.Debugger
	Roster    *auth.Roster
	Sessions  *auth.Sessions
	Processor *processor.Processor
	Notifier  notify.Notifier
	// Collector stores error reports posted to the debug endpoint.
	Collector *debugger.LogStore
	Now       func() time.Time
}

type Server struct {
	cfg       *config.Config
	debugger  *debugger.Debugger
	roster    *auth.Roster
	sessions  *auth.Sessions
	processor *processor.Processor
	notifier  notify.Notifier
	collector *debugger.LogStore
	now       func() time.Time
	started   time.Time
	parser    fastjson.ParserPool
	srv       *http.Server
}

func NewServer(opts Options) *Server {
	s := &Server{
		cfg:       opts.Config,
		debugger:  opts.Debugger,
		roster:    opts.Roster,
		sessions:  opts.Sessions,
		processor: opts.Processor,
		notifier:  opts.Notifier,
		collector: opts.Collector,
		now:       opts.Now,
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.roster == nil {
		s.roster = auth.NewRoster(auth.DefaultMembers())
	}
	if s.processor == nil {
		s.processor = processor.New(processor.Options{
			Quality:   s.cfg.Processor.Quality,
			MaxImages: s.cfg.Processor.MaxImages,
		}, nil)
	}
	if s.notifier == nil {
		s.notifier = notify.LogNotifier{}
	}
	if s.collector == nil {
		s.collector = debugger.NewLogStore(debugger.DefaultStoreCapacity)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sessions == nil {
		s.sessions = auth.NewSessions(s.cfg.Roster.SessionTTL, s.now)
	}
	s.started = s.now()
	return s
}

// Handler returns the routed handler with CORS and panic capture applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/debug", s.handleDebug)
	mux.HandleFunc("/api/debug/panel", s.handlePanel)
	mux.HandleFunc("/api/debug/panel/toggle", s.handlePanelToggle)
	mux.HandleFunc("/api/process_product", s.handleProcessProduct)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/login_tracking", s.handleLoginTracking)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/ws/debug", s.handleDebugStream)

	return s.debugger.CapturePanics(cors(mux))
}

// Start serves on the configured address until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	logger.Info("Server listening", "api", map[string]interface{}{
		"addr":              addr,
		"environment":       s.cfg.Environment,
		"gemini_configured": s.cfg.GeminiConfigured(),
	})
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// Collector returns the store of reports received on the debug endpoint.
func (s *Server) Collector() *debugger.LogStore {
	return s.collector
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
