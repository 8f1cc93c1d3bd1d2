// Package server exposes the grievance form over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-grievance/pkg/companion"
	"github.com/goliatone/go-grievance/pkg/render"
	"github.com/goliatone/go-grievance/pkg/renderers/web"
	"github.com/goliatone/go-grievance/pkg/session"
)

// CookieName carries the session id between requests.
const CookieName = "grievance_session"

// Option configures a Server.
type Option func(*Server)

// WithSessions shares a session store.
func WithSessions(store *session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownGrace bounds how long Run waits for in-flight requests.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.grace = grace
		}
	}
}

// Server serves one form page per browser session.
type Server struct {
	companion *companion.Companion
	sessions  *session.Store
	logger    *zap.Logger
	grace     time.Duration
}

// New constructs a Server around comp.
func New(comp *companion.Companion, options ...Option) *Server {
	s := &Server{
		companion: comp,
		sessions:  session.NewStore(),
		logger:    zap.NewNop(),
		grace:     5 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(web.AssetsFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("listening", zap.String("addr", addr))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	state, err := s.companion.Interact(r.Context(), sess, nil)
	if err != nil {
		s.fail(w, "load form", err)
		return
	}
	s.write(w, r, http.StatusOK, companion.Page(state, nil))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	state, err := s.companion.Interact(r.Context(), sess, render.FormInput(r.PostForm))
	if err != nil {
		s.fail(w, "submit form", err)
		return
	}
	s.write(w, r, http.StatusOK, companion.Page(state, nil))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	state, err := s.companion.Interact(r.Context(), sess, render.FormInput(r.PostForm))
	if err != nil {
		s.fail(w, "submit form", err)
		return
	}

	// Missing fields stay listed on the page; they never block the packet.
	generated, err := s.companion.Generate(r.Context(), sess)
	if err != nil {
		s.fail(w, "generate packet", err)
		return
	}
	s.logger.Info("packet generated",
		zap.String("session", sess.ID),
		zap.String("packet", generated.Result.PacketPath),
		zap.Int("missing", len(state.Missing)),
	)
	s.write(w, r, http.StatusOK, companion.Page(state, &generated))
}

// session resolves the cookie session, issuing a new cookie when the id is
// missing or unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if cookie, err := r.Cookie(CookieName); err == nil {
		id = cookie.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug("session created", zap.String("session", sess.ID))
	}
	return sess
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	renderer, err := s.companion.Renderer(r.Header.Get("Accept"))
	if err != nil {
		s.fail(w, "resolve renderer", err)
		return
	}
	body, err := renderer.Render(r.Context(), page)
	if err != nil {
		s.fail(w, "render page", err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
