package rosterd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/zjrosen/rosterboard/internal/log"
)

// Handler provides the activities API over a Store.
type Handler struct {
	store Store
}

// NewHandler creates a new API handler wrapping the given Store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes returns an http.Handler with all API routes registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /activities", h.Activities)
	mux.HandleFunc("POST /activities/{name}/signup", h.Signup)
	mux.HandleFunc("POST /activities/{name}/unregister", h.Unregister)

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	return mux
}

// === Response Types ===

// MessageResponse is the body of a successful mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationError is one entry of a 422 response.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse is the body of a 422 response.
type ValidationResponse struct {
	Detail []ValidationError `json:"detail"`
}

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Activities int    `json:"activities"`
}

// === Handlers ===

// Activities returns every activity keyed by name, in store order.
// GET /activities
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		log.ErrorErr(log.CatServer, "Failed to read activities", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// Signup adds a participant.
// POST /activities/{name}/signup?email=
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Signup, func(activity, email string) string {
		return fmt.Sprintf("Signed up %s for %s", email, activity)
	})
}

// Unregister removes a participant.
// POST /activities/{name}/unregister?email=
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Unregister, func(activity, email string) string {
		return fmt.Sprintf("Unregistered %s from %s", email, activity)
	})
}

func (h *Handler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, activity, email string) error,
	message func(activity, email string) string,
) {
	activity := r.PathValue("name")
	emails, ok := r.URL.Query()["email"]
	if !ok {
		h.writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Detail: []ValidationError{{
			Loc:  []string{"query", "email"},
			Msg:  "field required",
			Type: "value_error.missing",
		}}})
		return
	}
	email := emails[0]

	if err := op(r.Context(), activity, email); err != nil {
		status, detail := statusFor(err)
		if status == http.StatusInternalServerError {
			log.ErrorErr(log.CatServer, "Mutation failed", err, "path", r.URL.Path)
		} else {
			log.Debug(log.CatServer, "Mutation rejected", "path", r.URL.Path, "status", status, "detail", detail)
		}
		h.writeJSON(w, status, ErrorResponse{Detail: detail})
		return
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{Message: message(activity, email)})
}

// Health reports liveness and the number of activities.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		h.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
		return
	}
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Activities: snap.Len()})
}

// statusFor maps store errors onto a status and detail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return http.StatusNotFound, "Activity not found"
	case errors.Is(err, ErrAlreadySignedUp):
		return http.StatusBadRequest, "Already signed up"
	case errors.Is(err, ErrNotSignedUp):
		return http.StatusBadRequest, "Not signed up for this activity"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(log.CatServer, "Failed to encode JSON response", "error", err)
	}
}

// Server wraps the Handler with an http.Server for lifecycle management.
type Server struct {
	server   *http.Server
	listener net.Listener
	port     int // Actual port after binding (useful when using :0)
}

// ServerConfig configures the API server.
type ServerConfig struct {
	// Addr is the address to listen on (e.g., "localhost:8000").
	Addr string
	// Store backs the API.
	Store Store
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// NewServer creates a new API server bound to cfg.Addr.
// If Addr uses port 0 the OS assigns a port; see Port.
func NewServer(cfg ServerConfig) (*Server, error) {
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	return &Server{
		port:     port,
		listener: listener,
		server: &http.Server{
			Handler:           NewHandler(cfg.Store).Routes(),
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
	}, nil
}

// Start serves requests. It blocks until the server is stopped or fails.
func (s *Server) Start() error {
	log.Info(log.CatServer, "Starting roster server", "addr", s.listener.Addr().String(), "port", s.port)
	err := s.server.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	log.Info(log.CatServer, "Stopping roster server")
	return s.server.Shutdown(ctx)
}

// Port returns the actual port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}
