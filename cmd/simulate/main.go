// Command simulate runs a credit scenario from a YAML file and prints the annual
// results.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"credit-engine/internal/chart"
	"credit-engine/internal/engine"
	"credit-engine/internal/logging"
	"credit-engine/internal/model"
)

func main() {
	scenarioPath := flag.String("scenario", "scenario.yaml", "path to YAML scenario")
	chartPath := flag.String("chart", "", "write a PNG chart of the first product to this path")
	asJSON := flag.Bool("json", false, "print the full response as JSON")
	flag.Parse()

	logger := logging.New("info")

	req, err := loadScenario(*scenarioPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load scenario")
	}

	resp := engine.Process(req)
	logMessages(logger, resp.SimulationResult.Messages)
	if resp.SimulationMetadata.SimulationOutcome != model.OutcomeSuccess {
		logger.Fatal().Msg("simulation failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			logger.Fatal().Err(err).Msg("encode response")
		}
	} else {
		for _, res := range resp.SimulationResult.Products {
			printAnnual(os.Stdout, &res)
		}
	}

	if *chartPath != "" {
		if err := writeChart(resp, *chartPath); err != nil {
			logger.Fatal().Err(err).Msg("write chart")
		}
		logger.Info().Str("path", *chartPath).Msg("chart written")
	}
}

func logMessages(logger *logging.Logger, msgs []model.CalculationMessage) {
	for _, m := range msgs {
		event := logger.Warn
		if m.Level == model.LevelCritical {
			event = logger.Error
		}
		event().Str("code", m.Code).Str("product_id", m.ProductID).Msg(m.Message)
	}
}

// writeChart renders the first product of a successful response.
func writeChart(resp *model.SimulationResponse, path string) error {
	products := resp.SimulationResult.Products
	if len(products) == 0 {
		return fmt.Errorf("no product results to chart")
	}
	png, err := chart.RenderAnnual(&products[0])
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return os.WriteFile(path, png, 0o644)
}

func loadScenario(path string) (*model.SimulationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var req model.SimulationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &req, nil
}

func printAnnual(w io.Writer, res *model.ProductResult) {
	a := res.Annual
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s (%s)\t\t\t\t\t\t\t\n", res.ProductID, res.LoanType)
	fmt.Fprintln(tw, "year\tvolume\tperforming\tnpl\tnew npl\tinterest\tllp\trepayments\t")
	for y := 0; y < model.Years; y++ {
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t\n",
			y+1, a.Volumes[y], a.PerformingAssets[y], a.NPLStock[y], a.NewNPLs[y],
			a.InterestIncome[y], a.LLP[y], a.PrincipalRepayments[y])
	}
	fmt.Fprintln(tw)
	tw.Flush()
}
