// Package pipeline drives batch extraction over input directories and writes
// the run's outputs.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/htmldoc"
	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/observability"
	"github.com/polymerlab/matsheet/internal/pdfdoc"
	"github.com/polymerlab/matsheet/internal/units"
)

// Stats accumulates counts over one run.
type Stats struct {
	Processed    int
	Extracted    int
	Skipped      map[string]int
	Errors       int
	DirtyEntries int
}

// ProgressFunc receives per-document progress during a batch.
type ProgressFunc func(current, total int, file string)

// Runner executes extraction over input directories. One runner accumulates
// stats and dirty entries across both sources.
type Runner struct {
	log   *observability.Logger
	html  *htmldoc.Processor
	pdf   *pdfdoc.Processor
	dirty *extract.DirtyLog
	stats Stats

	// Progress, when set, is called once per document.
	Progress ProgressFunc
}

// New creates a runner. The text and table sources are injectable so tests
// can run the PDF path without real documents.
func New(log *observability.Logger, text pdfdoc.TextSource, grids pdfdoc.TableSource) *Runner {
	t := units.NewTable()
	lex := lexicon.New()
	dirty := extract.NewDirtyLog()

	return &Runner{
		log:   log,
		html:  htmldoc.NewProcessor(t, lex),
		pdf:   pdfdoc.NewProcessor(text, grids, t, lex, dirty),
		dirty: dirty,
		stats: Stats{Skipped: make(map[string]int)},
	}
}

// RunHTML processes every .html file under dir in sorted order. A missing or
// empty directory yields no records and no error.
func (r *Runner) RunHTML(dir string) ([]*extract.FlatRecord, error) {
	files, err := listFiles(dir, ".html")
	if err != nil {
		return nil, err
	}

	records := make([]*extract.FlatRecord, 0, len(files))
	for i, path := range files {
		r.report(i+1, len(files), path)

		rec := r.processHTML(path)
		if rec == nil || rec.Skipped {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// RunPDF processes every .pdf file under dir in sorted order.
func (r *Runner) RunPDF(dir string) ([]*extract.FlatRecord, error) {
	files, err := listFiles(dir, ".pdf")
	if err != nil {
		return nil, err
	}

	records := make([]*extract.FlatRecord, 0, len(files))
	for i, path := range files {
		r.report(i+1, len(files), path)

		rec := r.processPDF(path)
		if rec == nil || rec.Skipped {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Dirty returns the run's accumulated dirty-data log.
func (r *Runner) Dirty() *extract.DirtyLog {
	return r.dirty
}

// Stats returns the run's accumulated counts.
func (r *Runner) Stats() Stats {
	r.stats.DirtyEntries = r.dirty.Len()
	return r.stats
}

// processHTML wraps one document so a panic or error in parsing cannot abort
// the batch.
func (r *Runner) processHTML(path string) (rec *extract.FlatRecord) {
	defer r.recoverDocument(path)

	content, err := os.ReadFile(path)
	if err != nil {
		r.documentError(path, err)
		return nil
	}

	rec, err = r.html.Process(filepath.Base(path), string(content))
	if err != nil {
		r.documentError(path, err)
		return nil
	}
	r.account(rec)
	return rec
}

func (r *Runner) processPDF(path string) (rec *extract.FlatRecord) {
	defer r.recoverDocument(path)

	rec, err := r.pdf.Process(path)
	if err != nil {
		r.documentError(path, err)
		return nil
	}
	r.account(rec)
	return rec
}

func (r *Runner) account(rec *extract.FlatRecord) {
	r.stats.Processed++
	if rec.Skipped {
		r.stats.Skipped[rec.SkippedReason]++
		r.log.Debug().
			Str("file", rec.SourceFile).
			Str("reason", rec.SkippedReason).
			Msg("document skipped")
		return
	}
	r.stats.Extracted++
	r.log.Debug().
		Str("file", rec.SourceFile).
		Str("record_id", extract.RecordID(rec.SourceType, rec.SourceFile).String()).
		Int("properties", len(rec.Keys())).
		Msg("document extracted")
}

func (r *Runner) documentError(path string, err error) {
	r.stats.Errors++
	r.log.Warn().Str("file", path).Err(err).Msg("document failed")
}

func (r *Runner) recoverDocument(path string) {
	if p := recover(); p != nil {
		r.stats.Errors++
		r.log.Error().Str("file", path).Interface("panic", p).Msg("document panicked")
	}
}

func (r *Runner) report(current, total int, path string) {
	if r.Progress != nil {
		r.Progress(current, total, filepath.Base(path))
	}
}

// listFiles returns the files under dir with the given extension, sorted so
// repeated runs process documents in the same order. A missing directory is
// treated as empty.
func listFiles(dir, ext string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ext {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
