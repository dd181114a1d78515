// Package pipeline orchestrates a batch enrichment run: reading the
// input, resolving each barcode through the source cascade, structuring
// the result, and persisting products, ledgers, and checkpoints.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/datacarts/barcode-enricher/internal/barcode"
	"github.com/datacarts/barcode-enricher/internal/db"
	"github.com/datacarts/barcode-enricher/internal/formatting"
	"github.com/datacarts/barcode-enricher/internal/ingestion"
	"github.com/datacarts/barcode-enricher/internal/llm"
	"github.com/datacarts/barcode-enricher/internal/observability"
	"github.com/datacarts/barcode-enricher/internal/progress"
	"github.com/datacarts/barcode-enricher/internal/prompts"
	"github.com/datacarts/barcode-enricher/internal/sources"
	"github.com/datacarts/barcode-enricher/internal/store"
	"github.com/datacarts/barcode-enricher/internal/structuring"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// State is the orchestrator's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateResuming   State = "resuming"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateStopped    State = "stopped"
	StateFailed     State = "failed"
)

// maxPageContext bounds how much scraped page text goes into a prompt.
const maxPageContext = 2000

// Pipeline runs a batch sequentially. All mutable state is owned by the
// single processing goroutine; the stop flag is the only field touched
// from outside (the signal handler).
type Pipeline struct {
	Sources  *sources.Cascade
	Enhancer *llm.Cascade
	Store    *store.Store
	Progress *progress.Tracker
	Mirror   *db.DB
	Printer  *observability.Printer

	// PageText widens prompt context from a candidate's source page.
	// Optional; nil disables page scraping.
	PageText func(ctx context.Context, url string) (string, error)

	Delay time.Duration
	Logf  func(format string, args ...any)

	state State
	stop  atomic.Bool
}

// State returns the orchestrator's current lifecycle state.
func (p *Pipeline) State() State {
	if p.state == "" {
		return StateIdle
	}
	return p.state
}

// Stop requests a cooperative stop. Safe to call from another
// goroutine; the run finishes the barcode in flight and then exits.
func (p *Pipeline) Stop() {
	p.stop.Store(true)
}

// Run processes the input file to completion, stop, or failure. The
// returned summary is valid in every terminal state; the error is
// non-nil only when the run failed before processing could start.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*observability.Summary, error) {
	start := time.Now()

	barcodes, err := ingestion.ReadBarcodes(inputPath)
	if err != nil {
		p.state = StateFailed
		return p.finish(nil, start), fmt.Errorf("read input: %w", err)
	}

	p.state = StateResuming
	cp := p.Progress.Load()
	var lastStored string
	if last := p.Store.LastProduct(); last != nil {
		lastStored = last.Barcode
	}
	startRow := progress.ResumeRow(cp, barcodes, lastStored)
	if cp == nil {
		cp = progress.NewCheckpoint()
	}
	if startRow > 0 {
		p.logf("resuming at row %d of %d", startRow, len(barcodes))
	}

	p.state = StateProcessing
	for i := startRow; i < len(barcodes); i++ {
		if p.stop.Load() || ctx.Err() != nil {
			p.state = StateStopped
			break
		}

		p.processRow(ctx, barcodes[i], cp)
		cp.CurrentRow = i
		if err := p.Progress.Save(cp); err != nil {
			p.logf("warning: %v", err)
		}

		if p.Delay > 0 && i+1 < len(barcodes) && !p.stop.Load() {
			select {
			case <-ctx.Done():
			case <-time.After(p.Delay):
			}
		}
	}

	if p.state == StateProcessing {
		p.state = StateCompleted
		if err := p.Progress.Clear(); err != nil {
			p.logf("warning: %v", err)
		}
	} else if p.state == StateStopped {
		// Keep the checkpoint so the next run resumes here.
		if err := p.Progress.Save(cp); err != nil {
			p.logf("warning: %v", err)
		}
	}
	return p.finish(cp, start), nil
}

func (p *Pipeline) processRow(ctx context.Context, raw string, cp *types.Checkpoint) {
	code := barcode.Normalize(raw)
	if code == "" {
		return
	}
	cp.Processed++
	cp.LastBarcode = code

	switch {
	case p.Store.HasInvalid(code):
		cp.SkippedInvalid++
		p.logf("skipping %s: on invalid ledger", code)

	case !barcode.Valid(code):
		cp.Errored++
		p.logf("invalid barcode %s", code)
		if err := p.Store.MarkInvalid(code, invalidReason(code)); err != nil {
			p.logf("warning: %v", err)
		}

	case p.Store.HasProduct(code):
		cp.Succeeded++
		p.logf("skipping %s: already enriched", code)

	default:
		record := p.resolve(ctx, code)
		if err := p.Store.SaveProduct(record); err != nil {
			cp.Errored++
			p.logf("warning: %v", err)
			return
		}
		if record.IsUnknown() {
			cp.Errored++
			p.logf("%s: no usable product data", code)
			return
		}
		cp.Succeeded++
		p.mirror(ctx, cp.RunID, record)
	}
}

// resolve runs the full cascade for one barcode and always returns a
// record; an unresolvable barcode yields the unknown-product shape that
// the store routes to the unresolved ledger.
func (p *Pipeline) resolve(ctx context.Context, code string) *types.ProductRecord {
	candidate := p.Sources.Lookup(ctx, code)
	if candidate == nil {
		return unknownRecord(code)
	}

	record := formatting.Format(candidate, code)

	if p.Enhancer != nil {
		prompt := prompts.Enhancement(code, p.buildContext(ctx, candidate))
		text, provider, err := p.Enhancer.Generate(ctx, prompt)
		if err != nil {
			p.logf("%s: enhancement unavailable: %v", code, err)
			return record
		}
		enhanced, err := structuring.Parse(text)
		if err != nil {
			p.logf("%s: discarding unusable completion: %v", code, err)
			return record
		}
		structuring.Merge(record, enhanced)
		record.DataSource = "AI Enhanced - " + provider
	}
	return record
}

// buildContext assembles the raw-information block of the enhancement
// prompt from the candidate and, when available, its source page.
func (p *Pipeline) buildContext(ctx context.Context, candidate *types.RawCandidate) string {
	var sb strings.Builder
	writeField := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}

	writeField("Name", candidate.Name)
	writeField("Brand", candidate.Brand)
	writeField("Description", candidate.Description)
	writeField("Ingredients", candidate.Ingredients)
	if candidate.QuantityValue > 0 {
		fmt.Fprintf(&sb, "Quantity: %g %s\n", candidate.QuantityValue, candidate.QuantityUnit)
	}
	writeField("Found via", candidate.SourceName)
	writeField("Source page", candidate.SourceURL)

	if p.PageText != nil && candidate.SourceURL != "" {
		if text, err := p.PageText(ctx, candidate.SourceURL); err == nil && text != "" {
			if len(text) > maxPageContext {
				text = text[:maxPageContext]
			}
			fmt.Fprintf(&sb, "Page excerpt: %s\n", text)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (p *Pipeline) mirror(ctx context.Context, runID string, record *types.ProductRecord) {
	if p.Mirror == nil {
		return
	}
	if err := p.Mirror.UpsertProduct(ctx, runID, record); err != nil {
		p.logf("warning: database mirror: %v", err)
	}
}

func (p *Pipeline) finish(cp *types.Checkpoint, start time.Time) *observability.Summary {
	summary := &observability.Summary{
		State:   string(p.State()),
		Elapsed: time.Since(start),
	}
	if cp != nil {
		summary.Processed = cp.Processed
		summary.Succeeded = cp.Succeeded
		summary.Errored = cp.Errored
		summary.SkippedInvalid = cp.SkippedInvalid
	}

	if p.Printer != nil {
		p.Printer.PrintSummary(summary)
		if p.Enhancer != nil {
			p.Printer.PrintProviderHealth(p.Enhancer.Health.Snapshot())
		}
		p.Printer.PrintProduct(p.Store.LastProduct())
	}
	return summary
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}

func invalidReason(code string) string {
	for _, r := range code {
		if r < '0' || r > '9' {
			return "contains non-digit characters"
		}
	}
	return fmt.Sprintf("unsupported length %d", len(code))
}

// unknownRecord builds the record for a barcode nothing could resolve.
// The heuristic formatter still runs so the entry carries the facts
// derivable from the identifier alone (country of origin, barcode
// type); the sentinel fields route it to the unresolved ledger.
func unknownRecord(code string) *types.ProductRecord {
	candidate := &types.RawCandidate{
		Name:        fmt.Sprintf("%s %s", types.UnknownProductPrefix, code),
		Description: fmt.Sprintf("%s for barcode %s", types.FailurePhrase, code),
	}
	record := formatting.Format(candidate, code)
	record.Brand = types.UnknownValue
	record.Features = append(record.Features, types.SentinelFeature)
	record.DataSource = types.NoDataSource
	return record
}
