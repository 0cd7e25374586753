package reporting

import (
	"context"
	"errors"
	"sort"

	"knowledge-network/internal/assets"
	"knowledge-network/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// AssetLister returns every asset, newest first.
type AssetLister interface {
	List(ctx context.Context) ([]assets.Asset, error)
}

type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Service aggregates dashboard statistics from the asset, user and training
// stores. Reads run concurrently.
type Service struct {
	assets    AssetLister
	users     Counter
	trainings Counter
}

func NewService(a AssetLister, users, trainings Counter) *Service {
	return &Service{assets: a, users: users, trainings: trainings}
}

// Statistics never fails: if any source is unavailable the caller gets the
// zero report and a warning is logged.
func (s *Service) Statistics(ctx context.Context) Statistics {
	out, err := s.collect(ctx)
	if err != nil {
		logger.From(ctx).Warn("statistics unavailable", "err", err)
		return emptyStatistics()
	}
	return out
}

func (s *Service) collect(ctx context.Context) (Statistics, error) {
	if s.assets == nil || s.users == nil || s.trainings == nil {
		return Statistics{}, errors.New("reporting: sources not configured")
	}

	var (
		all       []assets.Asset
		users     int
		trainings int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.assets.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		trainings, err = s.trainings.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}

	out := summarize(all)
	out.TotalUsers = users
	out.TotalTrainings = trainings
	return out, nil
}

// summarize expects newest-first input; contributor ties are broken by the
// author's earliest asset.
func summarize(newestFirst []assets.Asset) Statistics {
	out := emptyStatistics()

	counts := map[string]int{}
	var order []string
	for i := len(newestFirst) - 1; i >= 0; i-- {
		a := newestFirst[i]
		out.TotalAssets++
		switch a.Status {
		case assets.StatusApproved:
			out.ApprovedAssets++
		case assets.StatusPending:
			out.PendingAssets++
		case assets.StatusRejected:
			out.RejectedAssets++
		}

		cat := a.Category
		if cat == "" {
			cat = UnknownCategory
		}
		out.CategoryDistribution[cat]++

		if a.AuthorID == "" {
			continue
		}
		if _, seen := counts[a.AuthorID]; !seen {
			order = append(order, a.AuthorID)
		}
		counts[a.AuthorID]++
	}

	top := make([]Contributor, 0, len(order))
	for _, id := range order {
		top = append(top, Contributor{UserID: id, Count: counts[id]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > MaxTopContributors {
		top = top[:MaxTopContributors]
	}
	out.TopContributors = top
	return out
}
