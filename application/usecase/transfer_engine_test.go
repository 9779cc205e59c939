package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbridge/fundbridge/application/port/inbound"
	"github.com/fundbridge/fundbridge/domain"
)

func TestInitiate_AutoExecutesBelowThreshold(t *testing.T) {
	f := newEngineFixture()
	f.addAccount("acc-a", 10_000, 100)
	f.addAccount("acc-b", 0, 0)

	transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.NewFromInt(5_000),
		ActorID:              "op-1",
		Description:          "vendor payout",
	})

	require.NoError(t, err)
	require.NotNil(t, transfer)
	assert.Equal(t, domain.TransferStatusCompleted, transfer.Status)
	assert.False(t, transfer.RequiresApproval)
	assert.NotNil(t, transfer.CompletedAt)

	assert.True(t, f.balance("acc-a").Equal(decimal.NewFromInt(5_000)))
	assert.True(t, f.balance("acc-b").Equal(decimal.NewFromInt(5_000)))

	assert.Equal(t, []domain.AuditAction{
		domain.AuditTransferInitiated,
		domain.AuditTransferValidated,
		domain.AuditTransferCompleted,
	}, f.auditActions(transfer.ID))
}

func TestInitiate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		amount      decimal.Decimal
		wantErr     error
	}{
		{
			name:        "zero amount",
			source:      "acc-a",
			destination: "acc-b",
			amount:      decimal.Zero,
			wantErr:     domain.ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			source:      "acc-a",
			destination: "acc-b",
			amount:      decimal.NewFromInt(-50),
			wantErr:     domain.ErrInvalidAmount,
		},
		{
			name:        "same account",
			source:      "acc-a",
			destination: "acc-a",
			amount:      decimal.NewFromInt(100),
			wantErr:     domain.ErrSameAccount,
		},
		{
			name:        "insufficient funds",
			source:      "acc-a",
			destination: "acc-b",
			amount:      decimal.NewFromInt(20_000),
			wantErr:     domain.ErrInsufficientFunds,
		},
		{
			name:        "minimum balance breached",
			source:      "acc-a",
			destination: "acc-b",
			amount:      decimal.NewFromInt(9_950),
			wantErr:     domain.ErrMinimumBalanceViolation,
		},
		{
			name:        "unknown source",
			source:      "acc-missing",
			destination: "acc-b",
			amount:      decimal.NewFromInt(100),
			wantErr:     domain.ErrAccountNotFound,
		},
		{
			name:        "unknown destination",
			source:      "acc-a",
			destination: "acc-missing",
			amount:      decimal.NewFromInt(100),
			wantErr:     domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture()
			f.addAccount("acc-a", 10_000, 100)
			f.addAccount("acc-b", 0, 0)

			transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
				SourceAccountID:      tt.source,
				DestinationAccountID: tt.destination,
				Amount:               tt.amount,
				ActorID:              "op-1",
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, transfer)

			// A rejected proposal must not exist in any form.
			assert.Empty(t, f.store.transfers)
			assert.Empty(t, f.store.audits)
			assert.True(t, f.balance("acc-a").Equal(decimal.NewFromInt(10_000)))
			assert.True(t, f.balance("acc-b").Equal(decimal.Zero))
		})
	}
}

func TestInitiate_InactiveAccountsAreInvisible(t *testing.T) {
	f := newEngineFixture()
	f.addAccount("acc-a", 10_000, 0)
	f.addAccount("acc-b", 0, 0)
	f.deactivateAccount("acc-b")

	_, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.NewFromInt(100),
		ActorID:              "op-1",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	f.deactivateAccount("acc-a")
	f.addAccount("acc-c", 0, 0)
	_, err = f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-c",
		Amount:               decimal.NewFromInt(100),
		ActorID:              "op-1",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestInitiate_ThresholdRouting(t *testing.T) {
	threshold := DefaultApprovalThreshold

	t.Run("exactly at threshold auto-executes", func(t *testing.T) {
		f := newEngineFixture()
		f.addAccount("acc-a", 2_000_000, 0)
		f.addAccount("acc-b", 0, 0)

		transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
			SourceAccountID:      "acc-a",
			DestinationAccountID: "acc-b",
			Amount:               threshold,
			ActorID:              "op-1",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusCompleted, transfer.Status)
		assert.False(t, transfer.RequiresApproval)
		assert.True(t, f.balance("acc-b").Equal(threshold))
	})

	t.Run("above threshold parks for approval", func(t *testing.T) {
		f := newEngineFixture()
		f.addAccount("acc-a", 2_000_000, 0)
		f.addAccount("acc-b", 0, 0)
		amount := threshold.Add(decimal.NewFromFloat(0.01))

		transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
			SourceAccountID:      "acc-a",
			DestinationAccountID: "acc-b",
			Amount:               amount,
			ActorID:              "op-1",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusAwaitingApproval, transfer.Status)
		assert.True(t, transfer.RequiresApproval)

		// No money moves until a decision is rendered.
		assert.True(t, f.balance("acc-a").Equal(decimal.NewFromInt(2_000_000)))
		assert.True(t, f.balance("acc-b").Equal(decimal.Zero))

		approval, err := f.approvals.GetByTransferID(context.Background(), transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalStatusPending, approval.Status)

		assert.Equal(t, []domain.AuditAction{
			domain.AuditTransferInitiated,
			domain.AuditTransferValidated,
			domain.AuditTransferAwaitingApproval,
		}, f.auditActions(transfer.ID))
	})
}

func TestInitiate_ExecutionFailurePersistsFailedTransfer(t *testing.T) {
	f := newEngineFixture()
	f.addAccount("acc-a", 10_000, 0)
	f.addAccount("acc-b", 0, 0)
	f.store.failAdjustBalance["acc-b"] = errors.New("deadlock detected")

	transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.NewFromInt(5_000),
		ActorID:              "op-1",
	})

	require.Error(t, err)
	assert.Nil(t, transfer)
	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)

	// The execution transaction rolled back: no money moved.
	assert.True(t, f.balance("acc-a").Equal(decimal.NewFromInt(10_000)))
	assert.True(t, f.balance("acc-b").Equal(decimal.Zero))

	// The failure itself survives in a follow-up transaction.
	stored, getErr := f.transfers.GetByID(context.Background(), execErr.TransferID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.TransferStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "deadlock detected", *stored.ErrorMessage)

	assert.Equal(t, []domain.AuditAction{
		domain.AuditTransferFailed,
	}, f.auditActions(execErr.TransferID))
}

func TestGetTransferByID_JoinsApproval(t *testing.T) {
	f := newEngineFixture()
	f.addAccount("acc-a", 5_000_000, 0)
	f.addAccount("acc-b", 0, 0)

	transfer, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.NewFromInt(1_500_000),
		ActorID:              "op-1",
	})
	require.NoError(t, err)

	details, err := f.engine.GetTransferByID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.ID, details.Transfer.ID)
	require.NotNil(t, details.Approval)
	assert.Equal(t, domain.ApprovalStatusPending, details.Approval.Status)

	_, err = f.engine.GetTransferByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestListTransfers_FiltersAndPaginates(t *testing.T) {
	f := newEngineFixture()
	f.addAccount("acc-a", 1_000_000, 0)
	f.addAccount("acc-b", 0, 0)
	f.addAccount("acc-c", 0, 0)

	for i := 0; i < 3; i++ {
		_, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
			SourceAccountID:      "acc-a",
			DestinationAccountID: "acc-b",
			Amount:               decimal.NewFromInt(100),
			ActorID:              "op-1",
		})
		require.NoError(t, err)
	}
	_, err := f.engine.Initiate(context.Background(), inbound.InitiateTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-c",
		Amount:               decimal.NewFromInt(100),
		ActorID:              "op-2",
	})
	require.NoError(t, err)

	page, err := f.engine.ListTransfers(context.Background(), domain.TransferFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 4)

	accountB := "acc-b"
	page, err = f.engine.ListTransfers(context.Background(), domain.TransferFilter{AccountID: &accountB})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	initiator := "op-2"
	page, err = f.engine.ListTransfers(context.Background(), domain.TransferFilter{InitiatedBy: &initiator})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = f.engine.ListTransfers(context.Background(), domain.TransferFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 2)

	page, err = f.engine.ListTransfers(context.Background(), domain.TransferFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
