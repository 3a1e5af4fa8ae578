package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/installment_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

const defaultSweepConcurrency = 4

type sweepService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	concurrency int
}

// NewSweepService creates the overdue and trust scanner. concurrency bounds
// how many accounts are processed at once.
func NewSweepService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	concurrency int,
	options ...ServiceOption,
) portssvc.SweepSvc {
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	svc := &sweepService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		concurrency: concurrency,
	}
	svc.applyOptions(options)
	return svc
}

var _ portssvc.SweepSvc = (*sweepService)(nil)

// sweepTally collects per-account results from concurrent workers.
type sweepTally struct {
	mu       sync.Mutex
	result   *domain.SweepResult
	accounts map[string]struct{}
}

func (t *sweepTally) flagged(accountID string, accountChanged bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result.LedgersFlagged++
	if accountChanged {
		t.accounts[accountID] = struct{}{}
	}
}

func (t *sweepTally) failed(cmd domain.MarkSuspicious, accountChanged bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if accountChanged {
		t.accounts[cmd.AccountID] = struct{}{}
	}
	t.result.Failures = append(t.result.Failures, domain.SweepFailure{
		AccountID: cmd.AccountID,
		LedgerID:  cmd.LedgerID,
		Error:     err.Error(),
	})
}

// RunOverdueSweep flags every installment ledger with an overdue obligation
// and marks its account suspicious. Obligation statuses are left untouched.
// Each ledger is handled independently; a failure is recorded and the ledger
// stays eligible for the next sweep.
func (s *sweepService) RunOverdueSweep(ctx context.Context) (*domain.SweepResult, error) {
	now := s.Now()
	logger := s.GetLogger(ctx).With(slog.String("job", "overdue_sweep"))
	started := now

	candidates, err := s.ledgerRepo.ListSweepCandidates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sweep candidates")
		return nil, err
	}

	byAccount := make(map[string][]domain.MarkSuspicious)
	var order []string
	for _, ledger := range candidates {
		overdue := ledger.OverdueOrdinals(now)
		if len(overdue) == 0 {
			continue
		}
		if _, seen := byAccount[ledger.AccountID]; !seen {
			order = append(order, ledger.AccountID)
		}
		byAccount[ledger.AccountID] = append(byAccount[ledger.AccountID], domain.MarkSuspicious{
			AccountID:       ledger.AccountID,
			LedgerID:        ledger.LedgerID,
			Reason:          overdueReason(ledger.LedgerID, overdue),
			OverdueOrdinals: overdue,
		})
	}

	tally := &sweepTally{
		result: &domain.SweepResult{
			FlaggedAccounts: []string{},
			LedgersScanned:  len(candidates),
			StartedAt:       started,
		},
		accounts: make(map[string]struct{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, accountID := range order {
		commands := byAccount[accountID]
		g.Go(func() error {
			// ledgers of one account run in order
			for _, cmd := range commands {
				if err := gctx.Err(); err != nil {
					return err
				}
				accountChanged, err := s.apply(gctx, cmd, now)
				if err != nil {
					metrics.SweepFailures.Inc()
					countConflict(err, "sweep")
					logger.Warn("Failed to flag overdue ledger",
						slog.String("account_id", cmd.AccountID),
						slog.String("ledger_id", cmd.LedgerID),
						slog.String("error", err.Error()))
					tally.failed(cmd, accountChanged, err)
					continue
				}
				tally.flagged(cmd.AccountID, accountChanged)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Overdue sweep interrupted")
		return nil, err
	}

	result := tally.result
	for accountID := range tally.accounts {
		result.FlaggedAccounts = append(result.FlaggedAccounts, accountID)
	}
	sort.Strings(result.FlaggedAccounts)
	result.FinishedAt = s.Now()

	metrics.SweepRuns.Inc()
	metrics.SweepAccountsFlagged.Add(float64(len(result.FlaggedAccounts)))
	metrics.SweepDuration.Observe(result.FinishedAt.Sub(started).Seconds())
	logger.Info("Overdue sweep finished",
		slog.Int("ledgers_scanned", result.LedgersScanned),
		slog.Int("ledgers_flagged", result.LedgersFlagged),
		slog.Int("accounts_flagged", len(result.FlaggedAccounts)),
		slog.Int("failures", len(result.Failures)))
	return result, nil
}

// apply marks the account suspicious and then flags the ledger. The ledger is
// only flagged after the account write succeeds. It reports whether the
// account changed.
func (s *sweepService) apply(ctx context.Context, cmd domain.MarkSuspicious, now time.Time) (bool, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, cmd.AccountID)
	if err != nil {
		return false, fmt.Errorf("load account: %w", err)
	}
	accountChanged := account.SetSuspicious(true, cmd.Reason, domain.SystemUserID, now)
	if accountChanged {
		if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
			return false, fmt.Errorf("mark account suspicious: %w", err)
		}
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, cmd.LedgerID)
	if err != nil {
		return accountChanged, fmt.Errorf("load ledger: %w", err)
	}
	if ledger.FlagSuspicious(domain.SystemUserID, now) {
		if err := s.ledgerRepo.UpdateLedger(ctx, ledger); err != nil {
			return accountChanged, fmt.Errorf("flag ledger: %w", err)
		}
	}
	return accountChanged, nil
}

func overdueReason(ledgerID string, ordinals []int) string {
	parts := make([]string, len(ordinals))
	for i, o := range ordinals {
		parts[i] = strconv.Itoa(o)
	}
	return fmt.Sprintf("ledger %s has overdue obligations %s", ledgerID, strings.Join(parts, ","))
}
