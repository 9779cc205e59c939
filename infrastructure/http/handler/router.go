package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fundbridge/fundbridge/infrastructure/http/middleware"
)

// NewRouter wires all endpoints with their capability checks. Role policy
// is enforced here, at the boundary; the engine itself trusts the resolved
// principal.
func NewRouter(
	authHandler *AuthHandler,
	transferHandler *TransferHandler,
	approvalHandler *ApprovalHandler,
	authMw *middleware.AuthMiddleware,
	rateLimitMw *middleware.RateLimitMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/me", authMw.RequireAuth(authHandler.Me)).Methods(http.MethodGet)

	r.HandleFunc("/v1/transfers",
		authMw.Require(middleware.CanInitiateTransfers, rateLimitMw.Limit(transferHandler.Initiate))).
		Methods(http.MethodPost)
	r.HandleFunc("/v1/transfers",
		authMw.Require(middleware.CanViewTransfers, transferHandler.List)).
		Methods(http.MethodGet)
	r.HandleFunc("/v1/transfers/{id}",
		authMw.Require(middleware.CanViewTransfers, transferHandler.Get)).
		Methods(http.MethodGet)
	r.HandleFunc("/v1/transfers/{id}/decision",
		authMw.Require(middleware.CanDecideApprovals, rateLimitMw.Limit(approvalHandler.Decide))).
		Methods(http.MethodPost)
	r.HandleFunc("/v1/transfers/{id}/audit",
		authMw.Require(middleware.CanViewAuditTrail, transferHandler.AuditTrail)).
		Methods(http.MethodGet)
	r.HandleFunc("/v1/approvals/pending",
		authMw.Require(middleware.CanDecideApprovals, approvalHandler.ListPending)).
		Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods(http.MethodGet)

	return r
}
