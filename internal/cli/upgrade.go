package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/archive"
	"github.com/glorpus-work/modsync/pkg/config"
	"github.com/glorpus-work/modsync/pkg/download"
	"github.com/glorpus-work/modsync/pkg/hook"
	"github.com/glorpus-work/modsync/pkg/installer"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/glorpus-work/modsync/pkg/orchestrator"
	"github.com/glorpus-work/modsync/pkg/registry"
	"github.com/glorpus-work/modsync/pkg/resolver"
	"github.com/spf13/cobra"
)

type upgradeFlags struct {
	output      string
	deps        string
	baseline    string
	concurrency int
	dryRun      bool
}

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var flags upgradeFlags

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade outdated mods",
		Long: `Check every mod in the dependency manifest against the registry, install
newer releases into the output directory and record the new versions in the
manifest.

A mod that cannot be looked up or installed is reported and skipped; the rest
of the run continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runUpgrade(cmd.Context(), cmd.OutOrStdout(), cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Install directory (defaults to config install_dir)")
	cmd.Flags().StringVarP(&flags.deps, "deps", "d", "", "Dependency manifest (defaults to config manifest_path)")
	cmd.Flags().StringVar(&flags.baseline, "baseline", "", "Version to compare against: declared or installed (defaults to config baseline)")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Number of parallel installs (defaults to config max_concurrent)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be upgraded without installing")

	return cmd
}

func runUpgrade(ctx context.Context, out io.Writer, cfg *config.Config, flags upgradeFlags) error {
	if err := applyUpgradeFlags(cfg, flags); err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	report, runErr := orch.Run(ctx, orchestrator.Options{
		ManifestPath: cfg.Settings.ManifestPath,
		InstallRoot:  cfg.Settings.InstallDir,
		Baseline:     cfg.BaselineMode(),
		Concurrency:  cfg.Settings.MaxConcurrent,
		DryRun:       flags.dryRun,
	})
	if report != nil {
		printReport(out, report)
	}
	if runErr != nil {
		return fmt.Errorf("upgrade failed: %w", runErr)
	}
	return nil
}

func applyUpgradeFlags(cfg *config.Config, flags upgradeFlags) error {
	overrides := []struct {
		key, value string
	}{
		{"install_dir", flags.output},
		{"manifest_path", flags.deps},
		{"baseline", flags.baseline},
	}
	if flags.concurrency != 0 {
		overrides = append(overrides, struct{ key, value string }{"max_concurrent", fmt.Sprint(flags.concurrency)})
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := cfg.SetValue(o.key, o.value); err != nil {
			return fmt.Errorf("invalid --%s: %w", flagName(o.key), err)
		}
	}
	return nil
}

func flagName(key string) string {
	switch key {
	case "install_dir":
		return "output"
	case "manifest_path":
		return "deps"
	case "max_concurrent":
		return "concurrency"
	default:
		return key
	}
}

// newOrchestrator wires the production components from cfg.
func newOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	s := cfg.Settings

	client := registry.NewClient(registry.Options{
		BaseURL:    s.RegistryURL,
		UserAgent:  s.UserAgent,
		Timeout:    s.HTTPTimeout,
		RetryDelay: s.RetryDelay,
	})

	var postInstall installer.PostInstallHook
	if s.Hooks.PostInstall != "" {
		exec, err := hook.LoadFile(s.Hooks.PostInstall)
		if err != nil {
			return nil, fmt.Errorf("failed to load post-install hook: %w", err)
		}
		postInstall = exec
	}

	return &orchestrator.Orchestrator{
		Manifests: manifest.NewStore(),
		Resolver:  resolver.New(client, s.MaxConcurrent),
		Installer: installer.New(download.NewManager(s.HTTPTimeout, s.UserAgent), archive.NewManager(), s.WorkDir, postInstall),
		Hooks: orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
			fields := logger.Fields{"phase": string(e.Phase)}
			if e.ID != "" {
				fields["package"] = e.ID
			}
			logger.Debug(e.Msg, fields)
		}},
	}, nil
}

// baselineLabel describes what the From column of a report means.
func baselineLabel(mode model.BaselineMode) string {
	if mode == model.BaselineDeclared {
		return "DECLARED"
	}
	return "INSTALLED"
}
