package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/internal/report"
	"github.com/creditvision/creditvision-cli/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a full text report for one applicant",
	Long: `Write a plain-text assessment report with signals, score breakdown,
loan offer, and explanation. Either run the full pipeline for a fresh
applicant, or render a saved recommendation by ID.

Examples:
  creditvision report --income 50000 --occupation salaried --output report.txt
  creditvision report --id 6d18b6a2-... --output report.txt`,
	RunE: runReport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recommendation history to an xlsx workbook",
	Long: `Export saved recommendations from the configured store.

Example:
  creditvision export --output history.xlsx --min-score 700`,
	RunE: runExport,
}

func init() {
	f := reportCmd.Flags()
	f.Float64("income", 0, "monthly income in rupees (required)")
	f.String("occupation", "", "occupation: salaried, self-employed, gig-worker, farmer, freelancer, informal (required)")
	f.Int("tenure-months", 0, "desired loan tenure in months (default: tier maximum)")
	f.Float64("principal", 0, "requested principal (default: tier maximum)")
	f.Uint64("seed", 0, "simulator seed for reproducible runs (0=random)")
	f.String("id", "", "render a saved recommendation instead of scoring fresh input")
	f.String("output", "", "report file path (default: stdout)")
	reportCmd.MarkFlagsOneRequired("income", "id")
	reportCmd.MarkFlagsMutuallyExclusive("income", "id")

	e := exportCmd.Flags()
	e.String("output", "history.xlsx", "xlsx output path")
	e.String("occupation", "", "filter by occupation")
	e.Int("min-score", 0, "filter by minimum score")
	e.Int("limit", 0, "maximum rows (default 100)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outputPath, _ := cmd.Flags().GetString("output")

	var result *model.RecommendationResult
	if id, _ := cmd.Flags().GetString("id"); id != "" {
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("report: --id requires a configured store")
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetRecommendation(ctx, id)
		if err != nil {
			return err
		}
		result = &rec.Result
	} else {
		input, err := applicantFromFlags(cmd)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetUint64("seed")

		env, err := initPipeline(ctx, seed, false)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err = env.Recommender.Recommend(ctx, input)
		if err != nil {
			return err
		}
	}

	w := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}
	if err := report.WriteText(w, result, time.Now()); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Printf("Report written to %s\n", outputPath)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outputPath, _ := cmd.Flags().GetString("output")
	occupation, _ := cmd.Flags().GetString("occupation")
	minScore, _ := cmd.Flags().GetInt("min-score")
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	if st == nil {
		return eris.New("export: no store configured (set store.driver to sqlite or postgres)")
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	filter := store.Filter{MinScore: minScore, Limit: limit}
	if occupation != "" {
		occ, err := model.ParseOccupation(occupation)
		if err != nil {
			return err
		}
		filter.Occupation = occ
	}

	recs, err := st.ListRecommendations(ctx, filter)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No recommendations match the filter.")
		return nil
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", outputPath)
	}
	defer f.Close() //nolint:errcheck

	if err := report.WriteXLSX(f, recs); err != nil {
		return err
	}
	fmt.Printf("Exported %d recommendations to %s\n", len(recs), outputPath)
	return nil
}
