package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacarts/barcode-enricher/internal/llm"
	"github.com/datacarts/barcode-enricher/internal/progress"
	"github.com/datacarts/barcode-enricher/internal/sources"
	"github.com/datacarts/barcode-enricher/internal/store"
	"github.com/datacarts/barcode-enricher/internal/types"
)

type fakeSource struct {
	candidates map[string]*types.RawCandidate
	calls      int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Lookup(_ context.Context, code string) (*types.RawCandidate, error) {
	f.calls++
	return f.candidates[code], nil
}

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Name() string { return "Gemini" }

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func writeInput(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func newPipeline(t *testing.T, source *fakeSource) (*Pipeline, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir)
	require.NoError(t, err)

	p := &Pipeline{
		Sources:  &sources.Cascade{Clients: []sources.Client{source}},
		Store:    s,
		Progress: progress.NewTracker(dir),
	}
	return p, s, dir
}

func TestRun_EnrichesAndCompletes(t *testing.T) {
	source := &fakeSource{candidates: map[string]*types.RawCandidate{
		"8901030875071": {Name: "Exo Round Dishwash Bar 500g", SourceName: "OpenFoodFacts"},
	}}
	p, s, _ := newPipeline(t, source)

	input := writeInput(t, "barcode\n8901030875071\n")
	summary, err := p.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, p.State())
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.True(t, s.HasProduct("8901030875071"))
	assert.Nil(t, p.Progress.Load(), "checkpoint cleared on completion")
}

func TestRun_InvalidBarcode(t *testing.T) {
	p, s, _ := newPipeline(t, &fakeSource{})

	input := writeInput(t, "barcode\n12ab\n123\n")
	summary, err := p.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Errored)
	assert.True(t, s.HasInvalid("12ab"))
	assert.True(t, s.HasInvalid("123"))
	assert.Equal(t, 0, s.ProductCount())
}

func TestRun_InvalidLedgerSkip(t *testing.T) {
	source := &fakeSource{}
	p, s, _ := newPipeline(t, source)
	require.NoError(t, s.MarkInvalid("12ab", "contains non-digit characters"))

	summary, err := p.Run(context.Background(), writeInput(t, "barcode\n12ab\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SkippedInvalid)
	assert.Equal(t, 0, summary.Errored)
	assert.Equal(t, 0, source.calls)
}

func TestRun_UnresolvedGoesToLedger(t *testing.T) {
	p, s, _ := newPipeline(t, &fakeSource{})

	summary, err := p.Run(context.Background(), writeInput(t, "barcode\n8901030875071\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 0, s.ProductCount())
	assert.Equal(t, 1, s.NotFoundCount())
}

func TestResolve_UnresolvedStillFormatted(t *testing.T) {
	p, _, _ := newPipeline(t, &fakeSource{})

	record := p.resolve(context.Background(), "8901030875071")

	require.True(t, record.IsUnknown(), "unresolved barcodes route to the ledger")
	assert.Equal(t, "India", record.Specification["Country of Origin"])
	assert.Equal(t, "13-digit barcode", record.Specification["Barcode Type"])
	assert.Equal(t, "Other", record.Category)
	assert.Contains(t, record.Features, types.SentinelFeature)
	assert.Greater(t, len(record.Features), 1, "heuristic features survive alongside the sentinel")
	assert.Equal(t, types.NoDataSource, record.DataSource)
}

func TestRun_ExistingRecordSkipsAdapters(t *testing.T) {
	source := &fakeSource{}
	p, s, _ := newPipeline(t, source)
	require.NoError(t, s.SaveProduct(&types.ProductRecord{
		Barcode:     "8901030875071",
		ProductName: "Exo Bar",
		Brand:       "Exo",
		Category:    "Household",
		DataSource:  "OpenFoodFacts",
	}))

	summary, err := p.Run(context.Background(), writeInput(t, "barcode\n8901030875071\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, source.calls, "stored barcodes must not hit the network")
}

func TestRun_ResumesFromCheckpoint(t *testing.T) {
	source := &fakeSource{candidates: map[string]*types.RawCandidate{
		"8901030875088": {Name: "Vim Bar Lemon 300g"},
	}}
	p, s, dir := newPipeline(t, source)

	cp := progress.NewCheckpoint()
	cp.CurrentRow = 0
	require.NoError(t, progress.NewTracker(dir).Save(cp))

	input := writeInput(t, "barcode\n8901030875071\n8901030875088\n")
	summary, err := p.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "row 0 already done, only row 1 remains")
	assert.True(t, s.HasProduct("8901030875088"))
	assert.False(t, s.HasProduct("8901030875071"))
	assert.Equal(t, 1, summary.Succeeded)
}

func TestRun_StopBeforeFirstRow(t *testing.T) {
	source := &fakeSource{}
	p, _, _ := newPipeline(t, source)
	p.Stop()

	_, err := p.Run(context.Background(), writeInput(t, "barcode\n8901030875071\n"))

	require.NoError(t, err)
	assert.Equal(t, StateStopped, p.State())
	assert.Equal(t, 0, source.calls)
	assert.NotNil(t, p.Progress.Load(), "stopped runs keep their checkpoint")
}

func TestRun_MissingInputFails(t *testing.T) {
	p, _, _ := newPipeline(t, &fakeSource{})

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
	assert.Equal(t, StateFailed, p.State())
}

func TestRun_EnhancedRecord(t *testing.T) {
	source := &fakeSource{candidates: map[string]*types.RawCandidate{
		"8901030875071": {Name: "Exo Round", Snippet: "dishwash bar 500g"},
	}}
	p, s, _ := newPipeline(t, source)
	p.Enhancer = llm.NewCascade(&fakeProvider{
		reply: `{"Product Name": "Exo Round Dishwash Bar", "Description": "Removes tough grease."}`,
	})

	_, err := p.Run(context.Background(), writeInput(t, "barcode\n8901030875071\n"))
	require.NoError(t, err)

	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Exo Round Dishwash Bar", products[0].ProductName)
	assert.Equal(t, "Removes tough grease.", products[0].Description)
	assert.Equal(t, "AI Enhanced - Gemini", products[0].DataSource)
}

func TestRun_EnhancementFailureFallsBack(t *testing.T) {
	source := &fakeSource{candidates: map[string]*types.RawCandidate{
		"8901030875071": {Name: "Exo Round", Snippet: "dishwash bar 500g"},
	}}
	p, s, _ := newPipeline(t, source)
	p.Enhancer = llm.NewCascade(&fakeProvider{
		err: &llm.APIError{Provider: "Gemini", StatusCode: 401, Kind: llm.KindAuth, Message: "bad key"},
	})

	_, err := p.Run(context.Background(), writeInput(t, "barcode\n8901030875071\n"))
	require.NoError(t, err)

	products := s.Products()
	require.Len(t, products, 1)
	assert.Contains(t, products[0].DataSource, "Intelligent Processing")
	assert.False(t, products[0].IsUnknown())
}
