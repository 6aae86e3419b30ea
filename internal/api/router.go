package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/textcompare/internal/api/handler"
	apimiddleware "github.com/mcoot/textcompare/internal/api/middleware"
	"github.com/mcoot/textcompare/internal/middleware"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/compare"
	"github.com/mcoot/textcompare/internal/services/refill"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CompareGateway *compare.Gateway
	RefillService  *refill.Service
}

// NewRouter creates a new API router with all routes configured.
// Routes are served at the root for existing clients and under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService, cfg.CompareGateway, cfg.RefillService, cfg.Logger)

	// Common middleware
	r.Use(middleware.RequestID(cfg.Logger))
	r.Use(apimiddleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	v1 := r.PathPrefix("/api/v1").Subrouter()

	for _, sr := range []*mux.Router{v1, r} {
		sr.HandleFunc("/signup", accountHandler.Signup).Methods(http.MethodPost)
		sr.HandleFunc("/compare", accountHandler.Compare).Methods(http.MethodPost)
		sr.HandleFunc("/refill", accountHandler.Refill).Methods(http.MethodPost)
		sr.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	}

	return r
}
