package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/geowerk/borelog"
)

func main() {
	// Optional .env with BORELOG_METRICS / BORELOG_OVERLAYS toggles.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "borelog",
		Usage: "Extract layer descriptions from borehole-log PDFs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file or directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output predictions JSON path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "params",
				Usage: "Matching parameters YAML file",
			},
			&cli.StringFlag{
				Name:  "ground-truth",
				Usage: "Ground truth JSON for evaluation",
			},
			&cli.StringFlag{
				Name:  "metrics-csv",
				Usage: "Document-level metrics CSV output path",
			},
			&cli.StringFlag{
				Name:  "overlay-dir",
				Usage: "Directory for per-page debug overlay images",
			},
		},
		Action: extract,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func extract(_ context.Context, cmd *cli.Command) error {
	config := borelog.DefaultConfig()
	config.EnableMetricsLogging = os.Getenv("BORELOG_METRICS") == "true"
	if os.Getenv("BORELOG_OVERLAYS") == "true" || cmd.String("overlay-dir") != "" {
		config.RenderOverlays = true
		config.OverlayDir = cmd.String("overlay-dir")
	}
	if path := cmd.String("params"); path != "" {
		params, err := borelog.LoadMatchingParams(path)
		if err != nil {
			return err
		}
		config.Matching = params
	}
	if config.OverlayDir != "" {
		if err := os.MkdirAll(config.OverlayDir, 0o755); err != nil {
			return fmt.Errorf("failed to create overlay directory: %w", err)
		}
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	processor := borelog.NewProcessorWithConfig(instance, config)

	inputs, err := collectPDFs(cmd.String("input"))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no PDF files found under %s", cmd.String("input"))
	}

	predictions := make(map[string]*borelog.DocumentPredictions, len(inputs))
	for _, path := range inputs {
		fmt.Fprintf(os.Stderr, "Processing %s...\n", path)
		prediction, metrics, err := processor.ProcessFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		predictions[filepath.Base(path)] = prediction
		fmt.Fprintf(os.Stderr, "  %d layers in %v\n",
			metrics.Statistics.TotalLayers, metrics.TotalTime.Round(time.Millisecond))
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if err := borelog.WriteJSON(f, predictions); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Predictions written to %s\n", outputPath)
	} else if err := borelog.WriteJSON(os.Stdout, predictions); err != nil {
		return err
	}

	if truthPath := cmd.String("ground-truth"); truthPath != "" {
		truth, err := borelog.LoadGroundTruth(truthPath)
		if err != nil {
			return err
		}
		dataset := borelog.EvaluateMatching(predictions, truth)
		fmt.Fprintf(os.Stderr, "Macro P=%.3f R=%.3f F1=%.3f\n",
			dataset.MacroPrecision(), dataset.MacroRecall(), dataset.MacroF1())

		if csvPath := cmd.String("metrics-csv"); csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return fmt.Errorf("failed to create metrics file: %w", err)
			}
			defer f.Close()
			if err := dataset.WriteCSV(f); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Metrics written to %s\n", csvPath)
		}
	}

	return nil
}

// collectPDFs returns the PDF files under the input path: the file itself,
// or the PDFs directly inside an input directory.
func collectPDFs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(input, entry.Name()))
		}
	}
	return paths, nil
}
