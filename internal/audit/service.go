package audit

import (
	"context"
	"errors"
	"time"

	"knowledge-network/internal/apperr"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only; no Update/Delete methods exist.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest timestamp first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Service appends and reads the lifecycle audit trail.
//
// Unlike best-effort operational logging, an Append failure is returned to
// the caller, which aborts the enclosing lifecycle transition.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEntry = apperr.Validationf("audit: invalid entry")

func (s *Service) Append(ctx context.Context, e Entry) (Entry, error) {
	if s.repo == nil {
		return Entry{}, apperr.Storage(errors.New("audit: repository not configured"))
	}
	if !e.Action.Valid() || e.TargetType == "" || e.TargetID == "" {
		return Entry{}, ErrInvalidEntry
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, apperr.Storage(err)
	}
	return e, nil
}

// Record appends one entry describing an action on a knowledge asset.
func (s *Service) Record(ctx context.Context, action Action, userID, userName, assetID string, changes map[string]any) error {
	_, err := s.Append(ctx, Entry{
		Action:     action,
		UserID:     userID,
		UserName:   userName,
		TargetType: TargetKnowledgeAsset,
		TargetID:   assetID,
		Changes:    changes,
	})
	return err
}

// Recent returns the newest entries. limit <= 0 means DefaultRecentLimit;
// larger values are capped at MaxRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s.repo == nil {
		return nil, apperr.Storage(errors.New("audit: repository not configured"))
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	out, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
