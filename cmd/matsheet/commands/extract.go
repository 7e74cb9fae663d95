package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/polymerlab/matsheet/cmd/matsheet/ui"
	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/pdfdoc"
	"github.com/polymerlab/matsheet/internal/pipeline"
)

var (
	extractHTMLDir string
	extractPDFDir  string
	extractOutDir  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract property records from HTML and PDF datasheets",
	Long: `Extract processes every HTML page and PDF datasheet under the input
directories into flat property records, writing per-source JSON plus a
dirty-data audit log.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractHTMLDir, "html", "", "directory of saved HTML pages")
	extractCmd.Flags().StringVar(&extractPDFDir, "pdf", "", "directory of PDF datasheets")
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "output directory")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if extractHTMLDir != "" {
		cfg.Inputs.HTMLDir = extractHTMLDir
	}
	if extractPDFDir != "" {
		cfg.Inputs.PDFDir = extractPDFDir
	}
	if extractOutDir != "" {
		cfg.Outputs.Dir = extractOutDir
	}

	ui.InitUI(noColor, verbose)
	log := newLogger(cfg)

	ui.Section("Datasheet Extraction")
	ui.Info("HTML input: %s", cfg.Inputs.HTMLDir)
	ui.Info("PDF input: %s", cfg.Inputs.PDFDir)
	ui.Info("Output: %s", cfg.Outputs.Dir)
	ui.Newline()

	runner := pipeline.New(log, pdfdoc.FitzTextSource{}, pdfdoc.SidecarTableSource{})

	htmlRecords, err := runBatch(runner, "Processing HTML", func() (records, error) {
		return runner.RunHTML(cfg.Inputs.HTMLDir)
	})
	if err != nil {
		return fmt.Errorf("html extraction: %w", err)
	}

	pdfRecords, err := runBatch(runner, "Processing PDF", func() (records, error) {
		return runner.RunPDF(cfg.Inputs.PDFDir)
	})
	if err != nil {
		return fmt.Errorf("pdf extraction: %w", err)
	}

	outDir := cfg.Outputs.Dir
	if err := pipeline.WriteJSON(filepath.Join(outDir, pipeline.HTMLRecordsFile), htmlRecords); err != nil {
		return err
	}
	if err := pipeline.WriteJSON(filepath.Join(outDir, pipeline.PDFRecordsFile), pdfRecords); err != nil {
		return err
	}
	if err := pipeline.WriteDirtyLog(filepath.Join(outDir, pipeline.DirtyDataFile), runner.Dirty()); err != nil {
		return err
	}

	stats := runner.Stats()
	ui.Newline()
	ui.Section("Extraction Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Documents processed", fmt.Sprintf("%d", stats.Processed)},
		{"Records extracted", fmt.Sprintf("%d", stats.Extracted)},
		{"Skipped (overview/blocked)", fmt.Sprintf("%d", stats.Skipped["overview_or_blocked"])},
		{"Skipped (insufficient)", fmt.Sprintf("%d", stats.Skipped["insufficient_properties"])},
		{"Errors", fmt.Sprintf("%d", stats.Errors)},
		{"Dirty values", fmt.Sprintf("%d", stats.DirtyEntries)},
		{"Duration", ui.FormatDuration(time.Since(start))},
	})
	ui.Newline()
	ui.Success("Records written to %s", outDir)

	return nil
}

type records = []*extract.FlatRecord

// runBatch wires a progress bar to one source's batch run.
func runBatch(runner *pipeline.Runner, description string, run func() (records, error)) (records, error) {
	var bar *ui.ProgressBar
	runner.Progress = func(current, total int, file string) {
		if bar == nil {
			bar = ui.NewProgressBar(int64(total), description)
		}
		bar.Set(int64(current))
	}
	recs, err := run()
	if bar != nil {
		bar.Finish()
	}
	runner.Progress = nil
	return recs, err
}
