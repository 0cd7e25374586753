package trainings

import (
	"context"
	"strings"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/auth"
	"knowledge-network/pkg/logger"
	"knowledge-network/pkg/utils"
)

// Crediter is the part of scoring.Ledger that rewards completions.
type Crediter interface {
	CreditTraining(ctx context.Context, userID string) error
}

type Service struct {
	repo   Repository
	tx     utils.Transactor
	ledger Crediter
	clock  func() time.Time
}

func NewService(repo Repository, tx utils.Transactor, ledger Crediter) *Service {
	return &Service{repo: repo, tx: tx, ledger: ledger, clock: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Training, error) {
	out, err := s.repo.List(ctx)
	return out, apperr.Storage(err)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	return n, apperr.Storage(err)
}

// Complete marks the module done for the caller. Only the first completion
// earns points; repeats return the module unchanged.
func (s *Service) Complete(ctx context.Context, id auth.Identity, trainingID string) (Training, error) {
	if id.ID == "" {
		return Training{}, apperr.Forbiddenf("identity required")
	}
	if strings.TrimSpace(trainingID) == "" {
		return Training{}, apperr.Validationf("training id required")
	}

	var first bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, trainingID); err != nil {
			return err
		}
		added, err := s.repo.AddCompletion(ctx, trainingID, id.ID, s.clock().UTC())
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
		first = true
		return s.ledger.CreditTraining(ctx, id.ID)
	})
	if err != nil {
		return Training{}, apperr.Storage(err)
	}

	if first {
		logger.From(ctx).Info("training completed", "training_id", trainingID, "user_id", id.ID)
	}
	t, err := s.repo.Get(ctx, trainingID)
	return t, apperr.Storage(err)
}
