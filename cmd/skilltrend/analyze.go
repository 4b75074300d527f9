package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/report"
)

type analyzeFlags struct {
	Top       int
	CSVPath   string
	ChartPath string
	NoExport  bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze [roles...]",
		Short: "Fetch listings for each role, print the top skills and export CSV and chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd, args, f)
		},
	}
	cmd.Flags().IntVar(&f.Top, "top", 0, "skills to print (default report.top_n, 0 = all)")
	cmd.Flags().StringVar(&f.CSVPath, "csv", "", "CSV output path (overrides report.csv_path)")
	cmd.Flags().StringVar(&f.ChartPath, "chart", "", "chart output path (overrides report.chart_path)")
	cmd.Flags().BoolVar(&f.NoExport, "no-export", false, "print only, skip CSV and chart")
	return cmd
}

func (a *app) analyze(cmd *cobra.Command, args []string, f analyzeFlags) error {
	cfg := a.cfg
	roles := rolesOrDefault(args, cfg)
	if len(roles) == 0 {
		return analyze.ErrEmptyRole
	}

	p, err := a.buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	svc := a.newService(cfg, p.fetcher, nil)
	res, err := svc.AnalyzeMany(cmd.Context(), roles)
	if err != nil {
		return err
	}

	top := f.Top
	if top == 0 {
		top = cfg.Report.TopN
	}
	out := cmd.OutOrStdout()
	for _, r := range res.Results {
		fmt.Fprintf(out, "%s (%d jobs)\n", r.Role, len(r.Jobs))
		printCounts(out, r.Table.Top(top))
	}
	if len(res.Results) > 1 {
		fmt.Fprintf(out, "all roles (%d jobs)\n", res.Merged.Jobs())
		printCounts(out, res.Merged.Top(top))
	}

	if f.NoExport {
		return nil
	}

	csvPath := firstNonEmpty(f.CSVPath, cfg.Resolve(cfg.Report.CSVPath))
	if err := report.SaveCSV(csvPath, res.CSVRows()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved CSV to %s\n", csvPath)

	chartPath := firstNonEmpty(f.ChartPath, cfg.Resolve(cfg.Report.ChartPath))
	counts := res.Merged.Top(cfg.Report.ExportTopN)
	chart := report.Chart{
		Title:  report.ChartTitle(len(counts), strings.Join(roles, ", ")),
		Counts: counts,
	}
	if err := chart.Save(chartPath); err != nil {
		if errors.Is(err, report.ErrNothingToPlot) {
			fmt.Fprintln(out, "No skills found, chart skipped")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "Saved chart to %s\n", chartPath)
	return nil
}

func printCounts(w io.Writer, counts []domain.SkillCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range counts {
		fmt.Fprintf(tw, "  %d.\t%s\t%d\n", i+1, c.Skill, c.Count)
	}
	_ = tw.Flush()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
