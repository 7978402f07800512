package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"realty-calc/domain"
)

// calculation decodes one input kind and runs it.
type calculation func(ctx context.Context, a *app, input []byte) (any, error)

func decodeAndRun[T any, R any](run func(ctx context.Context, a *app, in T) (R, error)) calculation {
	return func(ctx context.Context, a *app, input []byte) (any, error) {
		var in T
		if err := json.Unmarshal(input, &in); err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
		return run(ctx, a, in)
	}
}

var calculations = map[string]calculation{
	"amortize": decodeAndRun(func(ctx context.Context, a *app, in domain.LoanInput) (domain.AmortizationResult, error) {
		return a.loans.Amortize(ctx, in)
	}),
	"compare-terms": decodeAndRun(func(ctx context.Context, a *app, in domain.TermComparisonInput) (domain.TermComparisonResult, error) {
		return a.terms.CompareTerms(ctx, in)
	}),
	"prequal": decodeAndRun(func(ctx context.Context, a *app, in domain.PrequalInput) (domain.PrequalResult, error) {
		return a.prequal.Prequalify(ctx, in)
	}),
	"investment": decodeAndRun(func(ctx context.Context, a *app, in domain.InvestmentInput) (domain.InvestmentResult, error) {
		return a.investment.Analyze(ctx, in, true)
	}),
	"netsheet": decodeAndRun(func(ctx context.Context, a *app, in domain.NetSheetInput) (domain.NetSheetResult, error) {
		return a.netSheets.Compute(ctx, in)
	}),
	"cma": decodeAndRun(func(ctx context.Context, a *app, in domain.CMARequest) (domain.CMAResult, error) {
		return a.cma.Estimate(ctx, in)
	}),
	"seller-report": decodeAndRun(func(ctx context.Context, a *app, in domain.SellerReportInput) (domain.SellerReport, error) {
		return a.sellerReport.Build(ctx, in)
	}),
}

func calculationKinds() []string {
	kinds := make([]string, 0, len(calculations))
	for k := range calculations {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func newCalcCmd(opts *cliOptions) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:       fmt.Sprintf("calc <%s>", strings.Join(calculationKinds(), "|")),
		Short:     "Run one calculation on a JSON input and print the result",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: calculationKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := calculations[args[0]](cmd.Context(), a, input)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON input file, - for stdin")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
