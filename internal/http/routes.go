package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices groups the collaborators the router exposes over HTTP.
type RouterServices struct {
	Auth   AuthManagerInterface
	Nav    NavControllerInterface
	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Mgr: services.Auth, Logger: services.Logger}
	navHandlers := &NavHandlers{Nav: services.Nav}

	registerAuthRoutes(mux, authHandlers)
	registerNavRoutes(mux, navHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger)(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerNavRoutes(mux *http.ServeMux, h *NavHandlers) {
	mux.HandleFunc("GET /nav/state", h.State)
	mux.HandleFunc("POST /nav/navigate", h.Navigate)
	mux.HandleFunc("GET /nav/menu", h.Menu)
}
