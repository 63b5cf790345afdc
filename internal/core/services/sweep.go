package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// groupSweep is the outcome of sweeping one group.
type groupSweep struct {
	sourcesUpdated int
	groupUpdated   bool
	failures       []domain.SweepFailure
}

func (s *groupSweep) fail(owner domain.Owner, err error) {
	logger.Warn("Sweep failed for %s: %v", owner, err)
	s.failures = append(s.failures, domain.SweepFailure{Owner: owner, Err: err})
}

// Sweep resynchronises every stale model. Groups are swept concurrently
// and rebuilds are throttled by the configured rate. A source is rebuilt
// if its model is empty or its corpus or the source itself changed after
// the model was written. A group is rebuilt if a member was rebuilt, a
// member model is newer than the group model or the eligible member set
// changed. With force every model is rebuilt.
//
// Source models and their group model are written separately. If a group
// write fails after its sources were rebuilt, the sources keep their new
// models, the group keeps its old one and the group appears in the
// report's failures. The next sweep sees the newer member models and
// rebuilds the group.
func (c *Coordinator) Sweep(ctx context.Context, force bool) (*domain.SweepReport, error) {
	report := &domain.SweepReport{Force: force, StartedAt: c.now()}
	logger.Info("Sweep started (force=%t)", force)

	groups, err := c.builder.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.settings.Concurrency, 1))
	for i := range groups {
		group := &groups[i]
		g.Go(func() error {
			res := c.sweepGroup(gctx, group, force)

			mu.Lock()
			defer mu.Unlock()
			report.SourcesUpdated += res.sourcesUpdated
			if res.groupUpdated {
				report.GroupsUpdated++
			}
			report.Failures = append(report.Failures, res.failures...)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors
	report.EndedAt = c.now()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	logger.Info("Sweep finished: %d source(s), %d group(s) rebuilt, %d failure(s)",
		report.SourcesUpdated, report.GroupsUpdated, len(report.Failures))

	errs := make([]error, 0, len(report.Failures))
	for _, f := range report.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Owner, f.Err))
	}
	return report, errors.Join(errs...)
}

func (c *Coordinator) sweepGroup(ctx context.Context, group *domain.Group, force bool) groupSweep {
	defer logger.Timed("Swept group %s", group.ID)()

	var res groupSweep
	groupOwner := domain.GroupOwner(group.ID)

	eligible, _, err := c.eligibility.eligibleSources(ctx, group.ID)
	if err != nil {
		res.fail(groupOwner, err)
		return res
	}

	memberRebuilt := false
	var members []string
	var newest time.Time
	for i := range eligible {
		source := &eligible[i]
		owner := domain.SourceOwner(source.ID)
		if err := c.attachSourceModel(ctx, source); err != nil {
			res.fail(owner, err)
			continue
		}
		model, err := c.builder.model(ctx, source.TextModelID)
		if err != nil {
			res.fail(owner, err)
			continue
		}

		stale, err := c.sourceStale(ctx, source, model, force)
		if err != nil {
			res.fail(owner, err)
			continue
		}
		if stale {
			if err := c.limiter.Wait(ctx); err != nil {
				return res
			}
			result, err := c.builder.rebuildSourceOnly(ctx, source)
			switch {
			case err != nil:
				res.fail(owner, err)
			case result.Outcome == domain.OutcomeRebuilt:
				res.sourcesUpdated++
				memberRebuilt = true
				members = append(members, source.ID)
				continue
			}
		}

		if model.IsReady() {
			members = append(members, source.ID)
			if model.ModifiedAt.After(newest) {
				newest = model.ModifiedAt
			}
		}
	}

	if err := c.attachGroupModel(ctx, group); err != nil {
		res.fail(groupOwner, err)
		return res
	}
	groupModel, err := c.builder.model(ctx, group.TextModelID)
	if err != nil {
		res.fail(groupOwner, err)
		return res
	}

	if !force && !memberRebuilt &&
		!newest.After(groupModel.ModifiedAt) &&
		groupModel.HasMembers(members) {
		return res
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return res
	}
	result, err := c.builder.RebuildGroup(ctx, group.ID)
	if err != nil {
		res.fail(groupOwner, err)
		return res
	}
	res.groupUpdated = result.Outcome == domain.OutcomeRebuilt
	return res
}

// sourceStale reports whether a source model needs a full rebuild.
func (c *Coordinator) sourceStale(
	ctx context.Context,
	source *domain.Source,
	model *domain.TextModel,
	force bool,
) (bool, error) {
	if force || !model.IsReady() {
		return true, nil
	}
	latest, _, err := c.builder.quotes.LatestChange(ctx, source.ID, c.now())
	if err != nil {
		return false, fmt.Errorf("latest quote change: %w", err)
	}
	// Deleting a quote leaves no newer quote behind, so the catalogue
	// touches the source instead.
	if source.UpdatedAt.After(latest) {
		latest = source.UpdatedAt
	}
	return latest.After(model.ModifiedAt), nil
}
