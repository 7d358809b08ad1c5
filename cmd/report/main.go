package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tabreport/adapters/loader"
	"tabreport/adapters/render"
	"tabreport/domain/report"
	"tabreport/domain/table"
	"tabreport/internal/analysis"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabreport",
		Short: "Generate analysis reports from CSV or Excel data",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newHeadersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var recipePath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "generate [data-file]",
		Short: "Run a report recipe against a data file and write the result ZIP",
		Long: `Run every analysis step in a JSON recipe against a CSV or Excel file.

The recipe uses the same shape as the API's request_data field:
a list of steps plus an optional output_filename.

Example: tabreport generate sales.csv --recipe recipe.json --output report.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], recipePath, outputPath)
		},
	}

	cmd.Flags().StringVar(&recipePath, "recipe", "", "Path to the JSON report recipe (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output ZIP path (defaults to the recipe's output filename)")
	cmd.MarkFlagRequired("recipe")

	return cmd
}

func newHeadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers [data-file]",
		Short: "Print the normalized column headers of a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadFile(args[0])
			if err != nil {
				return err
			}
			for _, name := range tbl.ColumnNames() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func runGenerate(dataPath, recipePath, outputPath string) error {
	raw, err := os.ReadFile(recipePath)
	if err != nil {
		return fmt.Errorf("reading recipe: %w", err)
	}
	var req report.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid report recipe: %w", err)
	}

	tbl, err := loadFile(dataPath)
	if err != nil {
		return err
	}
	if err := analysis.Validate(tbl, &req); err != nil {
		return fmt.Errorf("validating request: %w", err)
	}

	blocks := analysis.RunAll(tbl, &req)
	reportBlocks, insightBlocks := render.Split(blocks)
	archive, err := render.Bundle(render.Report(reportBlocks), render.Insights(insightBlocks))
	if err != nil {
		return fmt.Errorf("bundling report: %w", err)
	}

	if outputPath == "" {
		outputPath = render.ZipName(req.OutputFilename)
	}
	if err := os.WriteFile(outputPath, archive, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	fmt.Printf("wrote %s (%d analysis blocks)\n", outputPath, len(blocks))
	return nil
}

func loadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return loader.Load(f, filepath.Base(path))
}
