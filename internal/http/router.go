package http

import (
	"net/http"

	"spendiario/internal/auth"
	"spendiario/internal/config"
	"spendiario/internal/expense"
	"spendiario/internal/http/handler"
	mw "spendiario/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	users := &auth.Service{DB: db}
	expenses := &expense.Service{DB: db}

	ah := &handler.AuthHandler{Users: users, JWT: jwtSvc, Dev: cfg.Development()}
	eh := &handler.ExpenseHandler{Svc: expenses, Dev: cfg.Development()}

	requireAuth := auth.RequireAuth(jwtSvc, users)

	r.Route("/api", func(r chi.Router) {
		// unknown API routes answer JSON, not the default text page
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusNotFound, "API route not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		})

		r.Get("/health", handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", ah.Signup)
			r.Post("/login", ah.Login)
			r.With(requireAuth).Get("/me", ah.Me)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/", eh.List)
			r.Post("/", eh.Create)
			r.Put("/{id}", eh.Update)
			r.Delete("/{id}", eh.Delete)
		})
	})

	return r
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
