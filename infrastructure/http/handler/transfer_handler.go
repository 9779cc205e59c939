package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/http/middleware"
	"github.com/fundbridge/fundbridge/infrastructure/http/response"
	"github.com/fundbridge/fundbridge/infrastructure/http/validator"
)

// TransferHandler serves the transfer write and read endpoints.
type TransferHandler struct {
	transfers inbound.TransferService
	audits    inbound.AuditService
}

func NewTransferHandler(transfers inbound.TransferService, audits inbound.AuditService) *TransferHandler {
	return &TransferHandler{transfers: transfers, audits: audits}
}

type initiateTransferRequest struct {
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               string `json:"amount"`
	Description          string `json:"description"`
}

// Initiate handles POST /v1/transfers.
func (h *TransferHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateUUID(req.SourceAccountID) {
		response.UnprocessableEntity(w, "source_account_id must be a valid UUID")
		return
	}
	if !validator.ValidateUUID(req.DestinationAccountID) {
		response.UnprocessableEntity(w, "destination_account_id must be a valid UUID")
		return
	}
	if !validator.ValidateRequired(req.Amount) {
		response.UnprocessableEntity(w, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.UnprocessableEntity(w, "amount must be a decimal number")
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	transfer, err := h.transfers.Initiate(r.Context(), inbound.InitiateTransferInput{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               amount,
		ActorID:              principal.ID,
		Description:          req.Description,
		Meta:                 middleware.RequestMeta(r),
	})
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "transfer created", transfer)
}

// Get handles GET /v1/transfers/{id}.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !validator.ValidateUUID(id) {
		response.UnprocessableEntity(w, "id must be a valid UUID")
		return
	}

	details, err := h.transfers.GetTransferByID(r.Context(), id)
	if err != nil {
		response.EngineError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", details)
}

// List handles GET /v1/transfers.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransferFilter(r)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	page, err := h.transfers.ListTransfers(r.Context(), filter)
	if err != nil {
		response.EngineError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", page)
}

// AuditTrail handles GET /v1/transfers/{id}/audit.
func (h *TransferHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !validator.ValidateUUID(id) {
		response.UnprocessableEntity(w, "id must be a valid UUID")
		return
	}

	records, err := h.audits.ListAuditTrail(r.Context(), id)
	if err != nil {
		response.EngineError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", records)
}

func parseTransferFilter(r *http.Request) (domain.TransferFilter, error) {
	var filter domain.TransferFilter
	q := r.URL.Query()

	if v := q.Get("account_id"); v != "" {
		filter.AccountID = &v
	}
	if v := q.Get("initiated_by"); v != "" {
		filter.InitiatedBy = &v
	}
	if v := q.Get("status"); v != "" {
		status := domain.TransferStatus(v)
		filter.Status = &status
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidFilter("from must be an RFC3339 timestamp")
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidFilter("to must be an RFC3339 timestamp")
		}
		filter.To = &to
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, errInvalidFilter("limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errInvalidFilter("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}

type errInvalidFilter string

func (e errInvalidFilter) Error() string { return string(e) }
