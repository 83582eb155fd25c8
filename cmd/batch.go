package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/creditvision/creditvision-cli/internal/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score applicants from a CSV file",
	Long: `Score many applicants in one run.

The input CSV must have a header row with at least "income" and "occupation"
columns; "tenure_months" and "principal" are optional. One output row is
written per input row, in input order. Rows that fail validation are reported
and skipped, they do not abort the run.

Example:
  creditvision batch --input applicants.csv --output results.csv --concurrency 8`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("input", "", "input CSV path (required)")
	f.String("output", "", "output CSV path (default: stdout)")
	f.Int("concurrency", 4, "number of applicants scored in parallel")
	f.Uint64("seed", 0, "simulator seed for reproducible runs (0=random)")
	f.Bool("save", false, "persist each recommendation to the configured store")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	seed, _ := cmd.Flags().GetUint64("seed")
	save, _ := cmd.Flags().GetBool("save")

	if concurrency < 1 {
		concurrency = 1
	}

	inputs, err := readApplicantCSV(inputPath)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Println("No applicants in input file.")
		return nil
	}

	env, err := initPipeline(ctx, seed, save)
	if err != nil {
		return err
	}
	defer env.Close()

	log := zap.L().With(zap.String("command", "batch"))
	log.Info("starting batch scoring",
		zap.Int("applicants", len(inputs)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]*model.RecommendationResult, len(inputs))
	var mu sync.Mutex
	var failed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range inputs {
		g.Go(func() error {
			rec, err := env.Recommender.RecommendAndSave(gctx, inputs[i])
			if err != nil {
				log.Warn("applicant skipped",
					zap.Int("row", i+2),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = &rec.Result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch: scoring")
	}

	if err := writeBatchCSV(outputPath, results); err != nil {
		return err
	}

	log.Info("batch scoring complete",
		zap.Int("scored", len(inputs)-failed),
		zap.Int("skipped", failed),
	)
	return nil
}

func readApplicantCSV(path string) ([]model.ApplicantInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open input %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read CSV header")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	incomeIdx, ok := col["income"]
	if !ok {
		return nil, eris.New(`batch: input CSV missing "income" column`)
	}
	occIdx, ok := col["occupation"]
	if !ok {
		return nil, eris.New(`batch: input CSV missing "occupation" column`)
	}
	tenureIdx, hasTenure := col["tenure_months"]
	principalIdx, hasPrincipal := col["principal"]

	var inputs []model.ApplicantInput
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "batch: read CSV line %d", line)
		}

		income, err := strconv.ParseFloat(strings.TrimSpace(row[incomeIdx]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "batch: line %d: parse income", line)
		}
		occ, err := model.ParseOccupation(strings.TrimSpace(row[occIdx]))
		if err != nil {
			return nil, eris.Wrapf(err, "batch: line %d", line)
		}

		input := model.ApplicantInput{Income: income, Occupation: occ}
		if hasTenure && strings.TrimSpace(row[tenureIdx]) != "" {
			input.TenureMonths, err = strconv.Atoi(strings.TrimSpace(row[tenureIdx]))
			if err != nil {
				return nil, eris.Wrapf(err, "batch: line %d: parse tenure_months", line)
			}
		}
		if hasPrincipal && strings.TrimSpace(row[principalIdx]) != "" {
			input.RequestedPrincipal, err = strconv.ParseFloat(strings.TrimSpace(row[principalIdx]), 64)
			if err != nil {
				return nil, eris.Wrapf(err, "batch: line %d: parse principal", line)
			}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func writeBatchCSV(path string, results []*model.RecommendationResult) error {
	w := os.Stdout
	if path != "" {
		var err error
		w, err = os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "batch: create output %s", path)
		}
		defer w.Close() //nolint:errcheck
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(resultCSVHeader); err != nil {
		return eris.Wrap(err, "batch: write CSV header")
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := cw.Write(resultCSVRow(r)); err != nil {
			return eris.Wrap(err, "batch: write CSV row")
		}
	}
	return nil
}
