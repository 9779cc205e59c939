package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/http/middleware"
	"github.com/fundbridge/fundbridge/infrastructure/http/response"
	"github.com/fundbridge/fundbridge/infrastructure/http/validator"
)

// ApprovalHandler serves the decision endpoints for parked transfers.
type ApprovalHandler struct {
	approvals inbound.ApprovalService
}

func NewApprovalHandler(approvals inbound.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

type decideRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

// Decide handles POST /v1/transfers/{id}/decision.
func (h *ApprovalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !validator.ValidateUUID(id) {
		response.UnprocessableEntity(w, "id must be a valid UUID")
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Decision) {
		response.UnprocessableEntity(w, "decision is required")
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	transfer, err := h.approvals.Decide(r.Context(), inbound.DecideApprovalInput{
		TransferID: id,
		ApproverID: principal.ID,
		Decision:   domain.ApprovalStatus(req.Decision),
		Notes:      req.Notes,
		Meta:       middleware.RequestMeta(r),
	})
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "decision applied", transfer)
}

// ListPending handles GET /v1/approvals/pending. Transfers the caller
// initiated are excluded: they may never review their own requests.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	transfers, err := h.approvals.ListPendingApprovals(r.Context(), principal.ID)
	if err != nil {
		response.EngineError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", transfers)
}
