package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/glorpus-work/modsync/pkg/config"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var output, deps string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mods in the dependency manifest",
		Long: `List every mod recorded in the dependency manifest together with the
version found in the install directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := applyUpgradeFlags(cfg, upgradeFlags{output: output, deps: deps}); err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Install directory (defaults to config install_dir)")
	cmd.Flags().StringVarP(&deps, "deps", "d", "", "Dependency manifest (defaults to config manifest_path)")

	return cmd
}

func runList(out io.Writer, cfg *config.Config) error {
	store := manifest.NewStore()
	m := store.Load(cfg.Settings.ManifestPath)
	if len(m.Mods) == 0 {
		_, _ = fmt.Fprintln(out, "No mods in manifest")
		return nil
	}

	ids := make([]model.PackageIdentity, 0, len(m.Mods))
	for _, mod := range m.Mods {
		ids = append(ids, mod.Identity())
	}
	records := store.Probe(ids, cfg.Settings.InstallDir)

	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE\tDECLARED\tINSTALLED")
	for i, mod := range m.Mods {
		installed := records[i].Version
		declared := mod.DeclaredVersion()
		if mod.VersionErr() != nil {
			declared = color.RedString(declared)
		}
		cell := versionCell(installed)
		switch {
		case installed.IsZero():
			cell = color.RedString("missing")
		case installed != mod.Version:
			cell = color.YellowString(cell)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", records[i].Identity, declared, cell)
	}
	return tw.Flush()
}
