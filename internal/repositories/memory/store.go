// Package memory provides process-local repositories with the same versioned
// write semantics as the PostgreSQL adapters. It backs the --memory mode of
// the server and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/installment_ledger_app/internal/utils/pagination"
)

// Store keeps accounts, purchases and ledgers behind one RWMutex. Every value
// crossing the boundary is cloned so callers never share state with the store.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	purchases map[string]domain.Purchase
	ledgers   map[string]domain.Ledger
	refs      map[string]string // external reference -> ledger ID
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		purchases: make(map[string]domain.Purchase),
		ledgers:   make(map[string]domain.Ledger),
		refs:      make(map[string]string),
	}
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  s,
		LedgerRepo:   s,
		PurchaseRepo: s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade   = (*Store)(nil)
	_ portsrepo.PurchaseRepositoryFacade = (*Store)(nil)
)

// --- accounts ---

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	out := a.Clone()
	return &out, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	account.Version = 1
	s.accounts[account.AccountID] = account.Clone()
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if stored.Version != account.Version {
		return fmt.Errorf("%w: account %s is at version %d, not %d",
			apperrors.ErrConcurrentModification, account.AccountID, stored.Version, account.Version)
	}
	account.Version++
	s.accounts[account.AccountID] = account.Clone()
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	for id, l := range s.ledgers {
		if l.AccountID == accountID {
			s.unindex(l)
			delete(s.ledgers, id)
		}
	}
	delete(s.accounts, accountID)
	return nil
}

// --- purchases ---

func (s *Store) FindPurchaseByID(_ context.Context, purchaseID string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	return &p, nil
}

func (s *Store) SavePurchase(_ context.Context, purchase domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.purchases[purchase.PurchaseID]; exists {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrDuplicate, purchase.PurchaseID)
	}
	s.purchases[purchase.PurchaseID] = purchase
	return nil
}

// --- ledgers ---

func (s *Store) FindLedgerByID(_ context.Context, ledgerID string) (*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[ledgerID]
	if !ok {
		return nil, fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, ledgerID)
	}
	out := l.Clone()
	return &out, nil
}

func (s *Store) FindLedgerIDByReference(_ context.Context, externalRef string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.refs[externalRef]; ok && externalRef != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: reference %q", apperrors.ErrNotFound, externalRef)
}

func (s *Store) ListLedgersByAccount(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.Ledger, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	var matches []domain.Ledger
	for _, l := range s.ledgers {
		if l.AccountID != accountID {
			continue
		}
		if cursor != nil && !cursor.After(l.CreatedAt, l.LedgerID) {
			continue
		}
		matches = append(matches, l.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].LedgerID > matches[j].LedgerID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	if limit <= 0 || len(matches) <= limit {
		return matches, nil, nil
	}
	page := matches[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.LedgerID)
	return page, &token, nil
}

func (s *Store) ListSweepCandidates(_ context.Context) ([]domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Ledger
	for _, l := range s.ledgers {
		if l.PaymentMode == domain.PaymentModeInstallment && !l.Suspicious {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LedgerID < out[j].LedgerID })
	return out, nil
}

func (s *Store) SaveLedger(_ context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ledgers[ledger.LedgerID]; exists {
		return fmt.Errorf("%w: ledger %s", apperrors.ErrDuplicate, ledger.LedgerID)
	}
	if _, ok := s.accounts[ledger.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, ledger.AccountID)
	}
	if err := s.checkRefs(ledger); err != nil {
		return err
	}
	ledger.Version = 1
	s.ledgers[ledger.LedgerID] = ledger.Clone()
	s.index(ledger)
	return nil
}

func (s *Store) UpdateLedger(_ context.Context, ledger *domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.ledgers[ledger.LedgerID]
	if !ok {
		return fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, ledger.LedgerID)
	}
	if stored.Version != ledger.Version {
		return fmt.Errorf("%w: ledger %s is at version %d, not %d",
			apperrors.ErrConcurrentModification, ledger.LedgerID, stored.Version, ledger.Version)
	}
	if err := s.checkRefs(*ledger); err != nil {
		return err
	}
	s.unindex(stored)
	ledger.Version++
	s.ledgers[ledger.LedgerID] = ledger.Clone()
	s.index(*ledger)
	return nil
}

// checkRefs must be called with the write lock held.
func (s *Store) checkRefs(l domain.Ledger) error {
	for _, ref := range l.References() {
		if owner, ok := s.refs[ref]; ok && owner != l.LedgerID {
			return fmt.Errorf("%w: reference %q is used by ledger %s", apperrors.ErrDuplicate, ref, owner)
		}
	}
	return nil
}

func (s *Store) index(l domain.Ledger) {
	for _, ref := range l.References() {
		if ref != "" {
			s.refs[ref] = l.LedgerID
		}
	}
}

func (s *Store) unindex(l domain.Ledger) {
	for _, ref := range l.References() {
		if s.refs[ref] == l.LedgerID {
			delete(s.refs, ref)
		}
	}
}
