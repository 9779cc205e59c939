package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/domain"
)

type stubApprovalService struct {
	decide  func(in inbound.DecideApprovalInput) (*domain.Transfer, error)
	pending func(excludingActor string) ([]*domain.Transfer, error)
}

func (s *stubApprovalService) Decide(ctx context.Context, in inbound.DecideApprovalInput) (*domain.Transfer, error) {
	return s.decide(in)
}

func (s *stubApprovalService) ListPendingApprovals(ctx context.Context, excludingActor string) ([]*domain.Transfer, error) {
	return s.pending(excludingActor)
}

func TestDecideEndpoint(t *testing.T) {
	principal := domain.Principal{ID: "op-admin", Role: domain.RoleAdmin}
	target := "/v1/transfers/" + transferID + "/decision"

	t.Run("approved", func(t *testing.T) {
		svc := &stubApprovalService{
			decide: func(in inbound.DecideApprovalInput) (*domain.Transfer, error) {
				assert.Equal(t, transferID, in.TransferID)
				assert.Equal(t, "op-admin", in.ApproverID)
				assert.Equal(t, domain.ApprovalStatusApproved, in.Decision)
				return &domain.Transfer{ID: transferID, Status: domain.TransferStatusCompleted}, nil
			},
		}
		h := NewApprovalHandler(svc)

		rec, envelope := doRequest(t, authed(principal, h.Decide), http.MethodPost, target,
			`{"decision":"APPROVED","notes":"ok"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, envelope["status"])
	})

	t.Run("self approval maps to 403", func(t *testing.T) {
		svc := &stubApprovalService{
			decide: func(in inbound.DecideApprovalInput) (*domain.Transfer, error) {
				return nil, domain.ErrSelfApprovalForbidden
			},
		}
		h := NewApprovalHandler(svc)

		rec, envelope := doRequest(t, authed(principal, h.Decide), http.MethodPost, target,
			`{"decision":"APPROVED"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		data := envelope["data"].(map[string]interface{})
		assert.Equal(t, "FLOW_3003", data["code"])
	})

	t.Run("already decided maps to 409", func(t *testing.T) {
		svc := &stubApprovalService{
			decide: func(in inbound.DecideApprovalInput) (*domain.Transfer, error) {
				return nil, domain.ErrNotAwaitingApproval
			},
		}
		h := NewApprovalHandler(svc)

		rec, _ := doRequest(t, authed(principal, h.Decide), http.MethodPost, target,
			`{"decision":"REJECTED"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing decision", func(t *testing.T) {
		h := NewApprovalHandler(&stubApprovalService{})
		rec, _ := doRequest(t, authed(principal, h.Decide), http.MethodPost, target, `{"notes":"no decision"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListPendingEndpoint(t *testing.T) {
	principal := domain.Principal{ID: "op-admin", Role: domain.RoleAdmin}

	svc := &stubApprovalService{
		pending: func(excludingActor string) ([]*domain.Transfer, error) {
			assert.Equal(t, "op-admin", excludingActor)
			return []*domain.Transfer{
				{ID: transferID, Status: domain.TransferStatusAwaitingApproval},
			}, nil
		},
	}
	h := NewApprovalHandler(svc)

	rec, envelope := doRequest(t, authed(principal, h.ListPending), http.MethodGet, "/v1/transfers", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	items := envelope["data"].([]interface{})
	assert.Len(t, items, 1)
}
