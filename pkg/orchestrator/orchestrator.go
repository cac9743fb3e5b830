package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Run performs one upgrade cycle: load the manifest, determine the baseline,
// compute the plan, install outdated packages and save the manifest.
//
// Per-package failures are reported in the returned Report and never abort
// the run. The error is non-nil only when the manifest could not be saved or
// when no entry of a non-empty manifest could be looked up; a Report is
// returned in both cases.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	if o.Manifests == nil || o.Resolver == nil || o.Installer == nil {
		return nil, fmt.Errorf("orchestrator is not fully configured")
	}
	mode := opts.Baseline
	if mode == "" {
		mode = model.BaselineInstalled
	}

	r := &runner{o: o, opts: opts}
	report := &Report{RunID: uuid.NewString(), Baseline: mode, DryRun: opts.DryRun}
	runLog := logger.Fields{"run_id": report.RunID}
	r.emit(Event{Phase: PhaseIdle, Msg: report.RunID})

	manifest := o.Manifests.Load(opts.ManifestPath)
	logger.Info("Loaded dependency manifest", runLog, logger.Fields{"path": opts.ManifestPath, "mods": len(manifest.Mods)})
	r.emit(Event{Phase: PhaseManifestLoaded, Msg: fmt.Sprintf("%d mods", len(manifest.Mods))})

	baseline, rejected := r.baseline(manifest, mode)
	r.emit(Event{Phase: PhaseBaselineResolved, Msg: string(mode)})

	plan := o.Resolver.Resolve(ctx, baseline)
	logger.Info("Computed upgrade plan", runLog, logger.Fields{
		"upgrades": len(plan.Upgrades),
		"current":  len(plan.Current),
		"failures": len(plan.Failures),
	})
	if plan.Empty() {
		logger.Info("No mods need an upgrade", runLog)
	}
	r.emit(Event{Phase: PhasePlanComputed, Msg: fmt.Sprintf("%d upgrades", len(plan.Upgrades))})

	results := r.collect(baseline, rejected, plan)
	if !opts.DryRun {
		r.emit(Event{Phase: PhaseInstalling})
		r.install(ctx, plan.Upgrades, results)
	}

	updated := manifest.Clone()
	for _, pkg := range plan.Upgrades {
		if res := results[pkg.Identity]; res.Status == StatusInstalled {
			updated.SetVersion(pkg.Identity, pkg.LatestVersion)
		}
	}
	report.Manifest = updated
	report.Outcomes = make([]Outcome, 0, len(manifest.Mods))
	for _, mod := range manifest.Mods {
		report.Outcomes = append(report.Outcomes, results[mod.Identity()])
	}

	if !opts.DryRun {
		if err := o.Manifests.Save(opts.ManifestPath, updated); err != nil {
			logger.Error("Failed to save dependency manifest", runLog, logger.Fields{"path": opts.ManifestPath, "error": err.Error()})
			return report, errors.Wrapf(err, "save manifest %s", opts.ManifestPath)
		}
		r.emit(Event{Phase: PhaseManifestPersisted, Msg: opts.ManifestPath})
	}
	r.emit(Event{Phase: PhaseDone})

	if len(manifest.Mods) > 0 && len(plan.Upgrades)+len(plan.Current) == 0 {
		return report, errors.ErrNoPackagesResolved
	}
	return report, nil
}

type runner struct {
	o    *Orchestrator
	opts Options
	mu   sync.Mutex
}

func (r *runner) emit(e Event) {
	if r.o.Hooks.OnEvent == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.o.Hooks.OnEvent(e)
}

// baseline returns one entry per distinct identity in manifest order, with the
// version taken from the manifest or the install directory. In declared mode
// entries with an unreadable version cannot be compared and are returned in
// rejected instead.
func (r *runner) baseline(manifest model.DependencyManifest, mode model.BaselineMode) ([]model.ModDependency, map[model.PackageIdentity]error) {
	seen := make(map[model.PackageIdentity]bool, len(manifest.Mods))
	out := make([]model.ModDependency, 0, len(manifest.Mods))
	rejected := make(map[model.PackageIdentity]error)
	for _, mod := range manifest.Mods {
		id := mod.Identity()
		if seen[id] {
			logger.Warn("Duplicate manifest entry", logger.Fields{"package": id.String()})
			continue
		}
		seen[id] = true

		if err := mod.VersionErr(); err != nil {
			logger.Warn("Unreadable version in dependency manifest", logger.Fields{
				"package": id.String(),
				"version": mod.RawVersion,
				"error":   err.Error(),
			})
			if mode != model.BaselineInstalled {
				rejected[id] = errors.Wrap(err, "manifest version")
				continue
			}
		}
		if mode == model.BaselineInstalled {
			mod.Version = r.o.Manifests.ProbeInstalledVersion(id, r.opts.InstallRoot)
			mod.RawVersion = ""
		}
		out = append(out, mod)
	}
	return out, rejected
}

// collect turns the plan into provisional outcomes keyed by identity.
func (r *runner) collect(baseline []model.ModDependency, rejected map[model.PackageIdentity]error, plan model.UpgradePlan) map[model.PackageIdentity]Outcome {
	results := make(map[model.PackageIdentity]Outcome, len(baseline)+len(rejected))
	for id, err := range rejected {
		results[id] = Outcome{Identity: id, Status: StatusFailed, Err: err}
	}
	for _, mod := range baseline {
		results[mod.Identity()] = Outcome{
			Identity: mod.Identity(),
			Status:   StatusFailed,
			From:     mod.Version,
			Err:      errors.Wrap(errors.ErrRegistryUnavailable, "no registry result"),
		}
	}
	for _, f := range plan.Failures {
		res := results[f.Identity]
		res.Identity, res.Status, res.Err = f.Identity, StatusFailed, f.Err
		results[f.Identity] = res
	}
	for _, pkg := range plan.Current {
		res := results[pkg.Identity]
		res.Identity, res.Status, res.To = pkg.Identity, StatusCurrent, pkg.LatestVersion
		results[pkg.Identity] = res
	}
	for _, pkg := range plan.Upgrades {
		res := results[pkg.Identity]
		res.Identity, res.Status, res.To = pkg.Identity, StatusPlanned, pkg.LatestVersion
		results[pkg.Identity] = res
	}
	return results
}

// install runs the installer over upgrades with a bounded pool and records
// each result. Installs are independent; one failure does not stop the rest.
func (r *runner) install(ctx context.Context, upgrades []model.RegistryPackage, results map[model.PackageIdentity]Outcome) {
	limit := r.opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	errs := make([]error, len(upgrades))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, pkg := range upgrades {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			r.emit(Event{Phase: PhaseInstalling, ID: pkg.Identity.String(), Msg: pkg.LatestVersion.String()})
			errs[i] = r.o.Installer.Install(gctx, pkg, r.opts.InstallRoot)
			return nil
		})
	}
	_ = g.Wait()

	for i, pkg := range upgrades {
		res := results[pkg.Identity]
		if errs[i] != nil {
			logger.Error("Failed to install package", logger.Fields{"package": pkg.Identity.String(), "error": errs[i].Error()})
			res.Status, res.Err = StatusFailed, errs[i]
		} else {
			res.Status = StatusInstalled
		}
		results[pkg.Identity] = res
	}
}
