package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/infrastructure/http/middleware"
	"github.com/fundbridge/fundbridge/infrastructure/http/response"
	"github.com/fundbridge/fundbridge/infrastructure/http/validator"
)

// AuthHandler serves the operator login boundary.
type AuthHandler struct {
	auth inbound.AuthService
}

func NewAuthHandler(auth inbound.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.UnprocessableEntity(w, "Password is required")
		return
	}

	res, err := h.auth.Login(r.Context(), inbound.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		Meta:     middleware.RequestMeta(r),
	})
	if err != nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	response.Success(w, http.StatusOK, "success", res)
}

// Me handles GET /v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	operator, err := h.auth.Me(r.Context(), principal.ID)
	if err != nil {
		response.NotFound(w, "Operator not found")
		return
	}
	response.Success(w, http.StatusOK, "success", operator)
}
