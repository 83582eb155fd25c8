package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/creditvision/creditvision-cli/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single applicant and match a loan offer",
	Long: `Score one applicant from income and occupation.

Alternative data (location stability, mobile usage, UPI transaction count) is
simulated, the weighted heuristic score is computed on the 300-900 band, and a
loan offer is matched from the configured lender tiers. The explanation comes
from Claude when an API key is configured, otherwise from the deterministic
fallback template.

Examples:
  # Score a salaried applicant earning 50,000/month
  creditvision score --income 50000 --occupation salaried

  # Reproducible run with custom tenure, saved to history
  creditvision score --income 32000 --occupation gig-worker --tenure-months 48 --seed 42 --save

  # Machine-readable output
  creditvision score --income 75000 --occupation self-employed --format json --output result.json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Float64("income", 0, "monthly income in rupees (required)")
	f.String("occupation", "", "occupation: salaried, self-employed, gig-worker, farmer, freelancer, informal (required)")
	f.Int("tenure-months", 0, "desired loan tenure in months (default: tier maximum)")
	f.Float64("principal", 0, "requested principal (default: tier maximum)")
	f.Uint64("seed", 0, "simulator seed for reproducible runs (0=random)")
	f.Bool("save", false, "persist the recommendation to the configured store")
	f.String("format", "table", "output format: table, json, or csv")
	f.String("output", "", "output file path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("income")
	_ = scoreCmd.MarkFlagRequired("occupation")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, err := applicantFromFlags(cmd)
	if err != nil {
		return err
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	save, _ := cmd.Flags().GetBool("save")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "table" && format != "json" && format != "csv" {
		return eris.Errorf("score: --format must be table, json, or csv (got %q)", format)
	}

	env, err := initPipeline(ctx, seed, save)
	if err != nil {
		return err
	}
	defer env.Close()

	log := zap.L().With(zap.String("command", "score"))
	log.Info("scoring applicant",
		zap.Float64("income", input.Income),
		zap.String("occupation", string(input.Occupation)),
	)

	rec, err := env.Recommender.RecommendAndSave(ctx, input)
	if err != nil {
		return err
	}

	if err := outputResult(&rec.Result, format, outputPath); err != nil {
		return err
	}
	if save && env.Store != nil {
		fmt.Printf("\nSaved as %s\n", rec.ID)
	}
	return nil
}

// applicantFromFlags builds and validates the input shared by score and report.
func applicantFromFlags(cmd *cobra.Command) (model.ApplicantInput, error) {
	income, _ := cmd.Flags().GetFloat64("income")
	occupation, _ := cmd.Flags().GetString("occupation")
	tenure, _ := cmd.Flags().GetInt("tenure-months")
	principal, _ := cmd.Flags().GetFloat64("principal")

	occ, err := model.ParseOccupation(occupation)
	if err != nil {
		return model.ApplicantInput{}, err
	}

	input := model.ApplicantInput{
		Income:             income,
		Occupation:         occ,
		TenureMonths:       tenure,
		RequestedPrincipal: principal,
	}
	return input, input.Validate()
}

func outputResult(r *model.RecommendationResult, format, outputPath string) error {
	w := os.Stdout
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(r), "score: encode JSON")
	case "csv":
		cw := csv.NewWriter(w)
		defer cw.Flush()
		if err := cw.Write(resultCSVHeader); err != nil {
			return eris.Wrap(err, "score: write CSV header")
		}
		return eris.Wrap(cw.Write(resultCSVRow(r)), "score: write CSV row")
	default:
		printResultTable(w, r)
		return nil
	}
}

var resultCSVHeader = []string{
	"income", "occupation", "location_stability", "mobile_usage", "upi_transactions",
	"score", "rating", "tier", "principal", "rate_percent", "term_months", "emi",
	"total_interest", "rationale_source",
}

func resultCSVRow(r *model.RecommendationResult) []string {
	return []string{
		strconv.FormatFloat(r.Applicant.Income, 'f', 2, 64),
		string(r.Applicant.Occupation),
		strconv.FormatFloat(r.Features.LocationStability, 'f', 2, 64),
		strconv.FormatFloat(r.Features.MobileUsageScore, 'f', 1, 64),
		strconv.Itoa(r.Features.UPITransactionCount),
		strconv.Itoa(int(r.Score)),
		r.Score.Rating(),
		r.Offer.LenderTier,
		strconv.FormatFloat(r.Offer.Principal, 'f', 2, 64),
		strconv.FormatFloat(r.Offer.AnnualRatePercent, 'f', 2, 64),
		strconv.Itoa(r.Offer.TermMonths),
		strconv.FormatFloat(r.Offer.EMI, 'f', 2, 64),
		strconv.FormatFloat(r.Offer.TotalInterest, 'f', 2, 64),
		r.RationaleSource,
	}
}

func printResultTable(w *os.File, r *model.RecommendationResult) {
	fmt.Fprintf(w, "Score:      %d / %d (%s)\n", r.Score, model.ScoreMax, r.Score.Rating())
	fmt.Fprintf(w, "Occupation: %s\n", r.Applicant.Occupation)
	fmt.Fprintf(w, "Signals:    stability %.2f | mobile %.1f | UPI %d/mo\n",
		r.Features.LocationStability, r.Features.MobileUsageScore, r.Features.UPITransactionCount)
	fmt.Fprintf(w, "Tier:       %s\n", r.Offer.LenderTier)
	fmt.Fprintf(w, "Offer:      %.2f at %.2f%% p.a. for %d months\n",
		r.Offer.Principal, r.Offer.AnnualRatePercent, r.Offer.TermMonths)
	fmt.Fprintf(w, "EMI:        %.2f/month (total interest %.2f)\n",
		r.Offer.EMI, r.Offer.TotalInterest)
	fmt.Fprintf(w, "\n%s\n", r.Rationale)
	fmt.Fprintf(w, "\n(explanation source: %s)\n", r.RationaleSource)
}
