// Package server is the JSON-over-HTTP adapter for the ledger services.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/service"
)

// Handler bundles the services the HTTP routes dispatch to.
type Handler struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	finances *service.FinanceService
}

// NewHandler constructs an HTTP handler bound to the given services.
func NewHandler(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, finances *service.FinanceService) *Handler {
	return &Handler{
		auth:     authSvc,
		groups:   groups,
		expenses: expenses,
		finances: finances,
	}
}

// NewRouter registers all routes and the middleware stack. Everything
// under /api/v1 except auth registration and login requires a Bearer
// token.
func NewRouter(handler *Handler, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", handler.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.register)
		r.Post("/auth/login", handler.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/auth/me", handler.currentUser)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", handler.createGroup)
				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", handler.getGroup)
					r.Get("/members", handler.listMembers)
					r.Post("/members", handler.addMember)
					r.Post("/invites", handler.inviteMember)
					r.Delete("/members/{userID}", handler.archiveMember)
					r.Get("/finances", handler.getFinances)
					r.Get("/balances", handler.getBalances)
					r.Get("/simplified-debts", handler.getSimplifiedDebts)
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", handler.createExpense)
				r.Put("/{expenseID}", handler.updateExpense)
				r.Delete("/{expenseID}", handler.deleteExpense)
			})

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/", handler.createSettlement)
				r.Delete("/{settlementID}", handler.deleteSettlement)
			})
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
