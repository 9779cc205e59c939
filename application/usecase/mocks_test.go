package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// memStore is a map-backed stand-in for the Postgres store. All mock
// repositories share one store; the mock tx manager snapshots and restores
// it so rollback behaves like the real transaction boundary.
type memStore struct {
	accounts  map[string]domain.Account
	transfers map[string]domain.Transfer
	approvals map[string]domain.Approval // keyed by transfer id
	audits    []domain.AuditRecord

	// failAdjustBalance injects an execution failure for an account id.
	failAdjustBalance map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:          make(map[string]domain.Account),
		transfers:         make(map[string]domain.Transfer),
		approvals:         make(map[string]domain.Approval),
		failAdjustBalance: make(map[string]error),
	}
}

func (s *memStore) clone() *memStore {
	snap := newMemStore()
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.transfers {
		snap.transfers[k] = v
	}
	for k, v := range s.approvals {
		snap.approvals[k] = v
	}
	snap.audits = append([]domain.AuditRecord(nil), s.audits...)
	for k, v := range s.failAdjustBalance {
		snap.failAdjustBalance[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.accounts = snap.accounts
	s.transfers = snap.transfers
	s.approvals = snap.approvals
	s.audits = snap.audits
}

type memTxManager struct{ store *memStore }

func (m *memTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.clone()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type memAccountRepo struct{ store *memStore }

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if account, ok := r.store.accounts[id]; ok {
		return &account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) GetForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *memAccountRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err, ok := r.store.failAdjustBalance[id]; ok {
		return err
	}
	account, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = account.Balance.Add(delta)
	r.store.accounts[id] = account
	return nil
}

func (r *memAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.store.accounts[account.ID] = *account
	return nil
}

type memTransferRepo struct{ store *memStore }

func (r *memTransferRepo) Create(ctx context.Context, transfer *domain.Transfer) error {
	r.store.transfers[transfer.ID] = *transfer
	return nil
}

func (r *memTransferRepo) Update(ctx context.Context, transfer *domain.Transfer) error {
	if _, ok := r.store.transfers[transfer.ID]; !ok {
		return domain.ErrTransferNotFound
	}
	r.store.transfers[transfer.ID] = *transfer
	return nil
}

func (r *memTransferRepo) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if transfer, ok := r.store.transfers[id]; ok {
		return &transfer, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (r *memTransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *memTransferRepo) List(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *memTransferRepo) Count(ctx context.Context, filter domain.TransferFilter) (int, error) {
	return len(r.match(filter)), nil
}

func (r *memTransferRepo) ListAwaitingApproval(ctx context.Context, excludingActor string) ([]*domain.Transfer, error) {
	var matched []*domain.Transfer
	for _, transfer := range r.store.transfers {
		if transfer.Status == domain.TransferStatusAwaitingApproval && transfer.InitiatedBy != excludingActor {
			t := transfer
			matched = append(matched, &t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *memTransferRepo) match(filter domain.TransferFilter) []*domain.Transfer {
	var matched []*domain.Transfer
	for _, transfer := range r.store.transfers {
		if filter.AccountID != nil &&
			transfer.SourceAccountID != *filter.AccountID &&
			transfer.DestinationAccountID != *filter.AccountID {
			continue
		}
		if filter.InitiatedBy != nil && transfer.InitiatedBy != *filter.InitiatedBy {
			continue
		}
		if filter.Status != nil && transfer.Status != *filter.Status {
			continue
		}
		if filter.From != nil && transfer.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && transfer.CreatedAt.After(*filter.To) {
			continue
		}
		t := transfer
		matched = append(matched, &t)
	}
	return matched
}

type memApprovalRepo struct{ store *memStore }

func (r *memApprovalRepo) Create(ctx context.Context, approval *domain.Approval) error {
	r.store.approvals[approval.TransferID] = *approval
	return nil
}

func (r *memApprovalRepo) Update(ctx context.Context, approval *domain.Approval) error {
	if _, ok := r.store.approvals[approval.TransferID]; !ok {
		return domain.ErrApprovalNotFound
	}
	r.store.approvals[approval.TransferID] = *approval
	return nil
}

func (r *memApprovalRepo) GetByTransferID(ctx context.Context, transferID string) (*domain.Approval, error) {
	if approval, ok := r.store.approvals[transferID]; ok {
		return &approval, nil
	}
	return nil, domain.ErrApprovalNotFound
}

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Append(ctx context.Context, record *domain.AuditRecord) error {
	r.store.audits = append(r.store.audits, *record)
	return nil
}

func (r *memAuditRepo) ListByTransferID(ctx context.Context, transferID string) ([]*domain.AuditRecord, error) {
	var records []*domain.AuditRecord
	for i := range r.store.audits {
		record := r.store.audits[i]
		if record.TransferID != nil && *record.TransferID == transferID {
			records = append(records, &record)
		}
	}
	return records, nil
}

// engineFixture wires the engine against the in-memory store.
type engineFixture struct {
	store     *memStore
	accounts  *memAccountRepo
	transfers *memTransferRepo
	approvals *memApprovalRepo
	auditor   *AuditRecorder
	engine    *TransferEngine
	processor *ApprovalProcessor
}

func newEngineFixture() *engineFixture {
	store := newMemStore()
	accounts := &memAccountRepo{store: store}
	transfers := &memTransferRepo{store: store}
	approvals := &memApprovalRepo{store: store}
	audits := &memAuditRepo{store: store}
	tx := &memTxManager{store: store}
	log := logger.Noop()

	auditor := NewAuditRecorder(audits, log)
	balanceValidator := NewBalanceValidator(accounts)
	transferValidator := NewTransferValidator(accounts, balanceValidator)
	engine := NewTransferEngine(transfers, accounts, approvals, transferValidator, auditor, tx, log, DefaultApprovalThreshold)
	processor := NewApprovalProcessor(transfers, approvals, engine, auditor, tx, log)

	return &engineFixture{
		store:     store,
		accounts:  accounts,
		transfers: transfers,
		approvals: approvals,
		auditor:   auditor,
		engine:    engine,
		processor: processor,
	}
}

func (f *engineFixture) addAccount(id string, balance, minimum int64) {
	f.store.accounts[id] = domain.Account{
		ID:             id,
		AccountNumber:  "FB-" + id,
		Name:           "Account " + id,
		Balance:        decimal.NewFromInt(balance),
		MinimumBalance: decimal.NewFromInt(minimum),
		Active:         true,
	}
}

func (f *engineFixture) deactivateAccount(id string) {
	account := f.store.accounts[id]
	account.Active = false
	f.store.accounts[id] = account
}

func (f *engineFixture) balance(id string) decimal.Decimal {
	return f.store.accounts[id].Balance
}

func (f *engineFixture) auditActions(transferID string) []domain.AuditAction {
	records, _ := f.auditor.ListAuditTrail(context.Background(), transferID)
	actions := make([]domain.AuditAction, 0, len(records))
	for _, record := range records {
		actions = append(actions, record.Action)
	}
	return actions
}
