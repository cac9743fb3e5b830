//go:generate mockgen -destination=./mocks/orchestrator.go . ManifestStore,PlanResolver,Installer

package orchestrator

import (
	"context"

	"github.com/glorpus-work/modsync/pkg/model"
)

// DefaultConcurrency is the number of packages installed in parallel.
const DefaultConcurrency = 3

// ManifestStore loads and persists the dependency manifest.
type ManifestStore interface {
	Load(path string) model.DependencyManifest
	Save(path string, m model.DependencyManifest) error
	ProbeInstalledVersion(id model.PackageIdentity, installRoot string) model.SemanticVersion
}

// PlanResolver computes which packages have newer releases.
type PlanResolver interface {
	Resolve(ctx context.Context, baseline []model.ModDependency) model.UpgradePlan
}

// Installer installs a single registry package.
type Installer interface {
	Install(ctx context.Context, pkg model.RegistryPackage, installRoot string) error
}

// Orchestrator ties the manifest store, resolver and installer together.
type Orchestrator struct {
	Manifests ManifestStore
	Resolver  PlanResolver
	Installer Installer
	Hooks     Hooks // Hooks for progress and event notifications
}

// Phase is a step of an upgrade run. Runs move through the phases in the
// order they are declared.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseManifestLoaded    Phase = "manifest-loaded"
	PhaseBaselineResolved  Phase = "baseline-resolved"
	PhasePlanComputed      Phase = "plan-computed"
	PhaseInstalling        Phase = "installing"
	PhaseManifestPersisted Phase = "manifest-persisted"
	PhaseDone              Phase = "done"
)

// Event represents a simple progress notification.
type Event struct {
	Phase Phase
	ID    string // package identity, empty for run-level events
	Msg   string
}

// Hooks carries callbacks for progress events. OnEvent is never called
// concurrently.
type Hooks struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	ManifestPath string
	InstallRoot  string
	Baseline     model.BaselineMode // defaults to model.BaselineInstalled
	Concurrency  int
	DryRun       bool // compute the plan only; nothing is installed or saved
}

// Status is the result of one manifest entry.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusCurrent   Status = "current"
	StatusFailed    Status = "failed"
	StatusPlanned   Status = "planned"
)

// Outcome is the per-package result of a run.
type Outcome struct {
	Identity model.PackageIdentity
	Status   Status
	From     model.SemanticVersion // baseline version
	To       model.SemanticVersion // latest registry version, zero if unknown
	Err      error                 // set when Status is StatusFailed
}

// Report summarizes a run. Outcomes follow manifest order.
type Report struct {
	RunID    string
	Baseline model.BaselineMode
	DryRun   bool
	Outcomes []Outcome
	Manifest model.DependencyManifest // the manifest as saved
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
