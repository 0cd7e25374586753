package assets

import (
	"context"
	"errors"
	"strings"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/audit"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/locks"
	"knowledge-network/internal/rbac"
	"knowledge-network/pkg/logger"
	"knowledge-network/pkg/utils"

	"github.com/google/uuid"
)

// Ledger is the part of scoring.Ledger the engine credits.
type Ledger interface {
	CreditSubmission(ctx context.Context, userID string) error
	CreditApproval(ctx context.Context, authorID string) error
}

// AuditLog is the part of audit.Service the engine writes to.
type AuditLog interface {
	Record(ctx context.Context, action audit.Action, userID, userName, assetID string, changes map[string]any) error
}

// CreatorDirectory resolves author ids to current display names.
type CreatorDirectory interface {
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// Engine owns the knowledge asset state machine.
//
// Every transition runs in one unit of work: the asset write, its audit entry
// and any score credit are kept or discarded together. Transitions on the same
// asset are serialized through the Locker.
type Engine struct {
	repo   Repository
	tx     utils.Transactor
	ledger Ledger
	audit  AuditLog
	locker locks.Locker
	dir    CreatorDirectory
	clock  func() time.Time
}

func NewEngine(repo Repository, tx utils.Transactor, ledger Ledger, auditLog AuditLog, locker locks.Locker) *Engine {
	return &Engine{
		repo:   repo,
		tx:     tx,
		ledger: ledger,
		audit:  auditLog,
		locker: locker,
		clock:  time.Now,
	}
}

// WithDirectory sets the lookup used by AdminDocuments.
func (e *Engine) WithDirectory(d CreatorDirectory) *Engine {
	e.dir = d
	return e
}

// Create stores a new pending asset authored by id and counts the submission.
func (e *Engine) Create(ctx context.Context, id auth.Identity, in CreateInput) (Asset, error) {
	if id.ID == "" {
		return Asset{}, apperr.Forbiddenf("identity required")
	}
	if err := in.validate(); err != nil {
		return Asset{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = strings.TrimSpace(in.ContentType)
	}
	if category == "" {
		category = DefaultCategory
	}
	content := in.Content
	if strings.TrimSpace(content) == "" {
		content = in.Description
	}
	tags := append([]string{}, in.Tags...)

	now := e.clock().UTC()
	a := Asset{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Content:      content,
		Category:     category,
		Region:       strings.TrimSpace(in.Region),
		Author:       id.Name,
		AuthorID:     id.ID,
		Status:       StatusPending,
		ReviewStatus: StatusPending,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.repo.Insert(ctx, a); err != nil {
			return err
		}
		if err := e.ledger.CreditSubmission(ctx, id.ID); err != nil {
			return err
		}
		return e.audit.Record(ctx, audit.ActionCreated, id.ID, id.Name, a.ID, map[string]any{
			"title":    a.Title,
			"category": a.Category,
		})
	})
	if err != nil {
		return Asset{}, apperr.Storage(err)
	}

	logger.From(ctx).Info("asset created", "asset_id", a.ID, "author_id", id.ID)
	return a, nil
}

// Update applies patch to the asset's content fields. Status is never changed.
func (e *Engine) Update(ctx context.Context, id auth.Identity, assetID string, patch Patch) (Asset, error) {
	if err := patch.validate(); err != nil {
		return Asset{}, err
	}

	release, err := e.lock(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = e.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := e.repo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		changes := patch.apply(&a)
		a.UpdatedAt = e.clock().UTC()
		if err := e.repo.Update(ctx, a); err != nil {
			return err
		}
		if err := e.audit.Record(ctx, audit.ActionUpdated, id.ID, id.Name, a.ID, changes); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return Asset{}, apperr.Storage(err)
	}

	logger.From(ctx).Info("asset updated", "asset_id", assetID, "user_id", id.ID)
	return out, nil
}

// Review moves a pending asset to approved or rejected. Approval credits the
// asset's author. A second review of the same asset fails with a conflict.
func (e *Engine) Review(ctx context.Context, id auth.Identity, assetID string, d Decision) (Asset, error) {
	if !rbac.CanReview(id.Role) {
		return Asset{}, apperr.Forbiddenf("role %q cannot review assets", id.Role)
	}
	if err := d.validate(); err != nil {
		return Asset{}, err
	}

	release, err := e.lock(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = e.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := e.repo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if a.Status != StatusPending {
			return apperr.Conflictf("asset %s is already %s", assetID, a.Status)
		}

		reviewer := id.Name
		a.Status = d.Status
		a.ReviewStatus = d.Status
		a.ReviewedBy = &reviewer
		if c := strings.TrimSpace(d.ReviewComments); c != "" {
			a.ReviewComments = &c
		}
		a.UpdatedAt = e.clock().UTC()
		if err := e.repo.Update(ctx, a); err != nil {
			return err
		}

		action := audit.ActionApproved
		if d.Status == StatusRejected {
			action = audit.ActionRejected
		}
		changes := map[string]any{"status": string(d.Status)}
		if a.ReviewComments != nil {
			changes["reviewComments"] = *a.ReviewComments
		}
		if err := e.audit.Record(ctx, action, id.ID, id.Name, a.ID, changes); err != nil {
			return err
		}

		if d.Status == StatusApproved {
			if err := e.ledger.CreditApproval(ctx, a.AuthorID); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return Asset{}, apperr.Storage(err)
	}

	logger.From(ctx).Info("asset reviewed",
		"asset_id", assetID, "status", string(d.Status), "reviewer_id", id.ID, "author_id", out.AuthorID)
	return out, nil
}

// Delete removes the asset. Its audit history is kept.
func (e *Engine) Delete(ctx context.Context, id auth.Identity, assetID string) error {
	release, err := e.lock(ctx, assetID)
	if err != nil {
		return err
	}
	defer release()

	err = e.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := e.repo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if err := e.repo.Delete(ctx, assetID); err != nil {
			return err
		}
		return e.audit.Record(ctx, audit.ActionDeleted, id.ID, id.Name, assetID, map[string]any{
			"title": a.Title,
		})
	})
	if err != nil {
		return apperr.Storage(err)
	}

	logger.From(ctx).Info("asset deleted", "asset_id", assetID, "user_id", id.ID)
	return nil
}

func (e *Engine) Get(ctx context.Context, assetID string) (Asset, error) {
	if strings.TrimSpace(assetID) == "" {
		return Asset{}, apperr.Validationf("asset id required")
	}
	a, err := e.repo.Get(ctx, assetID)
	return a, apperr.Storage(err)
}

// List returns every asset, newest first.
func (e *Engine) List(ctx context.Context) ([]Asset, error) {
	return e.list(ctx, Filter{NewestFirst: true})
}

func (e *Engine) ListPending(ctx context.Context) ([]Asset, error) {
	return e.list(ctx, Filter{Status: StatusPending})
}

func (e *Engine) ListByAuthor(ctx context.Context, authorID string) ([]Asset, error) {
	if authorID == "" {
		return nil, apperr.Validationf("author id required")
	}
	return e.list(ctx, Filter{AuthorID: authorID})
}

// Search matches term against title, description and content, ignoring case.
func (e *Engine) Search(ctx context.Context, term string) ([]Asset, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validationf("search term required")
	}
	if len([]rune(term)) > MaxSearchLen {
		return nil, apperr.Validationf("search term must be at most %d characters", MaxSearchLen)
	}
	return e.list(ctx, Filter{Term: term})
}

// LatestApproved returns up to limit approved assets, newest first.
func (e *Engine) LatestApproved(ctx context.Context, limit int) ([]Asset, error) {
	return e.list(ctx, Filter{Status: StatusApproved, NewestFirst: true, Limit: limit})
}

// AdminDocument is an asset with its author's current display name.
type AdminDocument struct {
	Asset
	CreatorName string `json:"creatorName"`
}

// UnknownCreator is shown when the author no longer exists.
const UnknownCreator = "Unknown"

// AdminDocuments lists every asset, newest first, with creator names.
func (e *Engine) AdminDocuments(ctx context.Context) ([]AdminDocument, error) {
	all, err := e.List(ctx)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if e.dir != nil && len(all) > 0 {
		seen := map[string]struct{}{}
		ids := make([]string, 0, len(all))
		for _, a := range all {
			if _, ok := seen[a.AuthorID]; !ok {
				seen[a.AuthorID] = struct{}{}
				ids = append(ids, a.AuthorID)
			}
		}
		n, err := e.dir.Names(ctx, ids)
		if err != nil {
			logger.From(ctx).Warn("creator lookup failed", "err", err)
		} else {
			names = n
		}
	}

	out := make([]AdminDocument, 0, len(all))
	for _, a := range all {
		name, ok := names[a.AuthorID]
		if !ok || name == "" {
			name = UnknownCreator
		}
		out = append(out, AdminDocument{Asset: a, CreatorName: name})
	}
	return out, nil
}

func (e *Engine) list(ctx context.Context, f Filter) ([]Asset, error) {
	out, err := e.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func (e *Engine) lock(ctx context.Context, assetID string) (func(), error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, apperr.Validationf("asset id required")
	}
	release, err := e.locker.Lock(ctx, "asset:"+assetID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}
	return release, nil
}

// apply writes the set fields into a and returns them as audit changes.
func (p Patch) apply(a *Asset) map[string]any {
	changes := map[string]any{}
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
		changes["title"] = a.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
		changes["description"] = a.Description
	}
	if p.Content != nil {
		a.Content = *p.Content
		changes["content"] = a.Content
	}
	if p.Category != nil {
		a.Category = strings.TrimSpace(*p.Category)
		changes["category"] = a.Category
	}
	if p.Region != nil {
		a.Region = strings.TrimSpace(*p.Region)
		changes["region"] = a.Region
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
		changes["tags"] = a.Tags
	}
	return changes
}
