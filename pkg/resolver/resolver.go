//go:generate mockgen -destination=./mocks/resolver.go . PackageFetcher

// Package resolver decides which manifest entries have a newer release in the
// registry.
package resolver

import (
	"context"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of registry lookups in flight.
const DefaultConcurrency = 3

// PackageFetcher looks up the latest release of a package.
type PackageFetcher interface {
	FetchPackage(ctx context.Context, id model.PackageIdentity) (model.RegistryPackage, error)
}

// Resolver computes upgrade plans against a registry.
type Resolver struct {
	Registry    PackageFetcher
	Concurrency int
}

// New creates a Resolver backed by registry.
func New(registry PackageFetcher, concurrency int) *Resolver {
	return &Resolver{Registry: registry, Concurrency: concurrency}
}

type lookup struct {
	pkg model.RegistryPackage
	err error
}

// Resolve fetches every baseline entry from the registry and sorts it into
// upgrades, current packages and failures. Each list keeps baseline order.
// A failed lookup never aborts the others.
func (r *Resolver) Resolve(ctx context.Context, baseline []model.ModDependency) model.UpgradePlan {
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]lookup, len(baseline))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, dep := range baseline {
		g.Go(func() error {
			pkg, err := r.Registry.FetchPackage(gctx, dep.Identity())
			results[i] = lookup{pkg: pkg, err: err}
			return nil
		})
	}
	_ = g.Wait()

	plan := model.UpgradePlan{
		Upgrades: []model.RegistryPackage{},
		Current:  []model.RegistryPackage{},
		Failures: []model.ResolveFailure{},
	}
	for i, dep := range baseline {
		id := dep.Identity()
		res := results[i]
		if res.err != nil {
			logger.Warn("Failed to fetch package from registry", logger.Fields{
				"package": id.String(),
				"error":   res.err.Error(),
			})
			plan.Failures = append(plan.Failures, model.ResolveFailure{Identity: id, Err: res.err})
			continue
		}

		pkg := res.pkg
		if pkg.Identity != id {
			logger.Debug("Registry returned a differently spelled identity", logger.Fields{
				"requested": id.String(),
				"returned":  pkg.Identity.String(),
			})
			pkg.Identity = id
		}

		if dep.Version.IsOlderThan(pkg.LatestVersion) {
			logger.Info("Update available", logger.Fields{
				"package": id.String(),
				"current": dep.Version.String(),
				"latest":  pkg.LatestVersion.String(),
			})
			plan.Upgrades = append(plan.Upgrades, pkg)
			continue
		}
		logger.Debug("Package is up to date", logger.Fields{
			"package": id.String(),
			"version": dep.Version.String(),
		})
		plan.Current = append(plan.Current, pkg)
	}
	return plan
}
