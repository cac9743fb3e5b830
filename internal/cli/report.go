package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/glorpus-work/modsync/pkg/orchestrator"
)

func printReport(out io.Writer, report *orchestrator.Report) {
	if len(report.Outcomes) == 0 {
		_, _ = fmt.Fprintln(out, "No mods in manifest")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tw, "PACKAGE\t%s\tLATEST\tSTATUS\n", baselineLabel(report.Baseline))
	for _, o := range report.Outcomes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Identity, versionCell(o.From), versionCell(o.To), statusCell(o))
	}
	_ = tw.Flush()

	summary := fmt.Sprintf("%d installed, %d current, %d failed",
		report.Count(orchestrator.StatusInstalled),
		report.Count(orchestrator.StatusCurrent),
		report.Count(orchestrator.StatusFailed))
	if report.DryRun {
		summary = fmt.Sprintf("%d to upgrade, %d current, %d failed (dry run)",
			report.Count(orchestrator.StatusPlanned),
			report.Count(orchestrator.StatusCurrent),
			report.Count(orchestrator.StatusFailed))
	}
	if report.Count(orchestrator.StatusFailed) > 0 {
		summary = color.YellowString(summary)
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", summary)

	for _, o := range report.Outcomes {
		if o.Status == orchestrator.StatusFailed && o.Err != nil {
			_, _ = fmt.Fprintf(out, "  %s: %v\n", color.RedString(o.Identity.String()), o.Err)
		}
	}
}

func versionCell(v model.SemanticVersion) string {
	if v.IsZero() {
		return "-"
	}
	return v.String()
}

func statusCell(o orchestrator.Outcome) string {
	switch o.Status {
	case orchestrator.StatusInstalled:
		return color.GreenString(string(o.Status))
	case orchestrator.StatusPlanned:
		return color.CyanString(string(o.Status))
	case orchestrator.StatusFailed:
		return color.RedString(string(o.Status))
	default:
		return string(o.Status)
	}
}
