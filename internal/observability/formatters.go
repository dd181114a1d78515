// Package observability provides formatted output utilities for batch
// summaries and verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/datacarts/barcode-enricher/internal/llm"
	"github.com/datacarts/barcode-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxFeaturesToShow is the number of features displayed per record
	maxFeaturesToShow = 5
)

// Summary holds the terminal counts of a batch run.
type Summary struct {
	State          string
	Processed      int
	Succeeded      int
	Errored        int
	SkippedInvalid int
	Elapsed        time.Duration
}

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs the terminal state and counts of a batch run.
func (p *Printer) PrintSummary(s *Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("State:            %s\n", s.State))
	sb.WriteString(fmt.Sprintf("Processed:        %d\n", s.Processed))
	sb.WriteString(fmt.Sprintf("Succeeded:        %d\n", s.Succeeded))
	sb.WriteString(fmt.Sprintf("Errored:          %d\n", s.Errored))
	sb.WriteString(fmt.Sprintf("Skipped invalid:  %d\n", s.SkippedInvalid))
	sb.WriteString(fmt.Sprintf("Elapsed:          %s", s.Elapsed.Round(time.Second)))

	p.printBox("BATCH SUMMARY", sb.String())
}

// PrintProviderHealth outputs the standing of each generative provider.
func (p *Printer) PrintProviderHealth(health []llm.ProviderHealth) {
	if len(health) == 0 {
		return
	}

	var sb strings.Builder
	for i, h := range health {
		status := "available"
		if h.Disabled {
			status = "disabled (" + h.DisabledReason + ")"
		}
		sb.WriteString(fmt.Sprintf("%-10s %s\n", h.Name, status))
		if h.ConsecutiveFailures > 0 {
			sb.WriteString(fmt.Sprintf("           failures: %d\n", h.ConsecutiveFailures))
		}
		if h.LastError != "" {
			sb.WriteString(fmt.Sprintf("           last error: %s\n", h.LastError))
		}
		if i < len(health)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PROVIDER HEALTH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProduct outputs a human-readable view of an enriched record.
func (p *Printer) PrintProduct(record *types.ProductRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Barcode:   %s\n", record.Barcode))
	sb.WriteString(fmt.Sprintf("Name:      %s\n", record.ProductName))
	sb.WriteString(fmt.Sprintf("Brand:     %s\n", record.Brand))
	sb.WriteString(fmt.Sprintf("Category:  %s", record.Category))
	if record.Subcategory != "" {
		sb.WriteString(fmt.Sprintf(" / %s", record.Subcategory))
	}
	sb.WriteString("\n")
	if record.Quantity > 0 {
		sb.WriteString(fmt.Sprintf("Quantity:  %g %s\n", record.Quantity, record.Unit))
	}
	sb.WriteString(fmt.Sprintf("Source:    %s\n", record.DataSource))

	if len(record.Features) > 0 {
		sb.WriteString("\nFeatures:\n")
		count := min(len(record.Features), maxFeaturesToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", record.Features[i]))
		}
		if len(record.Features) > maxFeaturesToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Features)-maxFeaturesToShow))
		}
	}

	p.printBox("ENRICHED PRODUCT", strings.TrimSuffix(sb.String(), "\n"))
}
