package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/polymerlab/matsheet/cmd/matsheet/ui"
	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/merge"
	"github.com/polymerlab/matsheet/internal/pipeline"
)

var mergeOutDir string

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge per-source records by material identity",
	Long: `Merge folds the extracted HTML and PDF records into one record per
material. PDF records take precedence; every contributing document is kept
as provenance.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutDir, "out", "o", "", "directory holding extraction outputs")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if mergeOutDir != "" {
		cfg.Outputs.Dir = mergeOutDir
	}
	outDir := cfg.Outputs.Dir

	ui.InitUI(noColor, verbose)
	log := newLogger(cfg)

	ui.Section("Record Merge")

	var htmlRecords, pdfRecords []*extract.FlatRecord
	if err := pipeline.ReadJSON(filepath.Join(outDir, pipeline.HTMLRecordsFile), &htmlRecords); err != nil {
		return err
	}
	if err := pipeline.ReadJSON(filepath.Join(outDir, pipeline.PDFRecordsFile), &pdfRecords); err != nil {
		return err
	}

	spin := ui.NewSpinner("Merging records...")
	spin.Start()
	merged := merge.Merge(pdfRecords, htmlRecords)
	spin.Stop()

	mergedPath := filepath.Join(outDir, pipeline.MergedRecordsFile)
	if err := pipeline.WriteJSON(mergedPath, merged); err != nil {
		return err
	}

	log.Info().
		Int("pdf_records", len(pdfRecords)).
		Int("html_records", len(htmlRecords)).
		Int("merged", len(merged)).
		Msg("merge complete")

	ui.Success("Merged %d records into %d materials", len(pdfRecords)+len(htmlRecords), len(merged))
	ui.Success("Merged records written to %s", mergedPath)
	return nil
}
