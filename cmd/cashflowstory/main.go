package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cashflowstory/cashflowstory/internal/application/calc"
	"github.com/cashflowstory/cashflowstory/internal/domain/ratio"
	"github.com/cashflowstory/cashflowstory/internal/domain/statement"
	"github.com/cashflowstory/cashflowstory/internal/fixtures"
	httpContracts "github.com/cashflowstory/cashflowstory/internal/http"
	"github.com/cashflowstory/cashflowstory/internal/metrics"
)

const (
	appName = "cashflowstory"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	metrics.Initialize()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "B2B financial analytics: 21 ratios from a P&L and balance sheet",
		Version: version,
		Long: `CashFlow Story computes 21 financial ratios (profitability, working
capital, capital efficiency) from company-period P&L and balance-sheet
snapshots.

Run 'cashflowstory serve' to expose the HTTP API, or 'cashflowstory calc'
for a one-shot calculation from a JSON file.`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics HTTP server",
		Long:  "Starts the HTTP server with /api/calculate, /api/calculate/batch, /api/demo/rebeccas, /health and /metrics endpoints",
		RunE:  runServe,
	}

	serveCmd.Flags().String("config", "", "Path to YAML config file (defaults apply when omitted)")
	serveCmd.Flags().String("host", "", "Override listen host")
	serveCmd.Flags().Int("port", 0, "Override listen port")

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate analytics for statements from a JSON file",
		Long:  "Reads one statement (or a list with --batch) from a JSON file or stdin and prints the derived analytics as JSON",
		RunE:  runCalc,
	}

	calcCmd.Flags().String("input", "-", "Input file path, or '-' for stdin")
	calcCmd.Flags().Bool("batch", false, "Treat input as an ordered JSON array of statements")
	calcCmd.Flags().Bool("compact", false, "Emit compact JSON instead of indented")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the Rebeccas Coffee demo analytics",
		Long:  "Computes and prints the Rebeccas Coffee 2015-2018 case study with all 21 metrics per period",
		RunE:  runDemo,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// runCalc performs a one-shot calculation without the HTTP layer.
func runCalc(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	batch, _ := cmd.Flags().GetBool("batch")
	compact, _ := cmd.Flags().GetBool("compact")

	data, err := readInput(input)
	if err != nil {
		return err
	}

	calculator := calc.New(ratio.NewEngine(ratio.DefaultDaysInPeriod))

	var out interface{}
	if batch {
		var periods []statement.Statement
		if err := json.Unmarshal(data, &periods); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		companyName := ""
		if len(periods) > 0 {
			companyName = periods[0].CompanyName
		}
		out = httpContracts.NewBatchResponse(companyName, calculator.CalculateBatch(periods))
	} else {
		var s statement.Statement
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		result, verr := calculator.Calculate(s)
		if verr != nil {
			return verr
		}
		out = httpContracts.NewCalculateResponse(result, nil)
	}

	return printJSON(out, compact)
}

// runDemo prints the canned case study.
func runDemo(cmd *cobra.Command, args []string) error {
	calculator := calc.New(ratio.NewEngine(ratio.DefaultDaysInPeriod))
	items := calculator.CalculateBatch(fixtures.RebeccasCoffee())
	return printJSON(httpContracts.NewBatchResponse("Rebeccas Coffee", items), false)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v interface{}, compact bool) error {
	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
