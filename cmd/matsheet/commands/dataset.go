package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/polymerlab/matsheet/cmd/matsheet/ui"
	"github.com/polymerlab/matsheet/internal/dataset"
	"github.com/polymerlab/matsheet/internal/merge"
	"github.com/polymerlab/matsheet/internal/pipeline"
)

var (
	datasetOutDir string
	datasetCount  int
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build an instruction-tuning dataset from merged records",
	Long: `Dataset cycles the merged records through Chinese instruction templates
and writes Alpaca-format JSONL rows with property summaries, expert reasoning
and source citations.`,
	RunE: runDataset,
}

func init() {
	datasetCmd.Flags().StringVarP(&datasetOutDir, "out", "o", "", "directory holding merge outputs")
	datasetCmd.Flags().IntVar(&datasetCount, "count", 0, "number of rows to generate")
	rootCmd.AddCommand(datasetCmd)
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if datasetOutDir != "" {
		cfg.Outputs.Dir = datasetOutDir
	}
	if datasetCount > 0 {
		cfg.Dataset.Count = datasetCount
	}
	outDir := cfg.Outputs.Dir

	ui.InitUI(noColor, verbose)
	log := newLogger(cfg)

	ui.Section("Instruction Dataset")

	var merged []*merge.MergedRecord
	if err := pipeline.ReadJSON(filepath.Join(outDir, pipeline.MergedRecordsFile), &merged); err != nil {
		return err
	}

	spin := ui.NewSpinner("Building dataset...")
	spin.Start()
	rows := dataset.Build(merged, cfg.Dataset.Count)
	spin.Stop()

	datasetPath := filepath.Join(outDir, pipeline.DatasetFile)
	if err := pipeline.WriteDatasetJSONL(datasetPath, rows); err != nil {
		return err
	}

	log.Info().
		Int("materials", len(merged)).
		Int("rows", len(rows)).
		Msg("dataset built")

	ui.Success("Wrote %d rows to %s", len(rows), datasetPath)
	return nil
}
