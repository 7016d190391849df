package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/meshbox/pkg/bbox"
	"github.com/chazu/meshbox/pkg/config"
	"github.com/chazu/meshbox/pkg/export"
	"github.com/chazu/meshbox/pkg/logging"
	"github.com/chazu/meshbox/pkg/metrics"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Kernel.MeshCells = 20
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func buildExample(t *testing.T, name string, cfg *config.Config, collector *metrics.Collector) *Result {
	t.Helper()
	source, err := os.ReadFile(filepath.Join("examples", name))
	require.NoError(t, err)

	app, err := NewApp(cfg, logging.Discard(), collector)
	require.NoError(t, err)
	result, err := app.Build(context.Background(), string(source))
	require.NoError(t, err)
	return result
}

func findRecord(t *testing.T, doc *export.Document, id uint64) export.Record {
	t.Helper()
	for _, r := range doc.Ranks {
		for _, b := range r.Boxes {
			if b.ID == id {
				return b
			}
		}
	}
	t.Fatalf("no box for element %d", id)
	return export.Record{}
}

// TestE2EQuadExample exercises the full pipeline: source, engine, mesh,
// partition, adapter, export document.
func TestE2EQuadExample(t *testing.T) {
	result := buildExample(t, "quad.mesh", testConfig(t, nil), nil)

	doc := result.Document
	assert.Equal(t, 2, doc.Dim)
	assert.Equal(t, 4, result.Elements)
	assert.Equal(t, 9, result.Nodes)
	require.Len(t, doc.Ranks, 1)

	ids := make([]uint64, 0, 4)
	for _, b := range doc.Ranks[0].Boxes {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []uint64{101, 102, 103, 104}, ids, "boxes follow element order")

	rec := findRecord(t, doc, 104)
	assert.Equal(t, []float64{1, 1}, rec.Low)
	assert.Equal(t, []float64{2, 2}, rec.High)
	assert.Equal(t, uint32(0), rec.Proc)
}

func TestE2ERodAcrossRanks(t *testing.T) {
	collector := metrics.NewCollector()
	cfg := testConfig(t, func(c *config.Config) { c.Ranks = 2 })
	result := buildExample(t, "rod.mesh", cfg, collector)

	doc := result.Document
	assert.Equal(t, 1, doc.Dim)
	require.Len(t, doc.Ranks, 2)
	assert.Len(t, doc.Ranks[0].Boxes, 3)
	assert.Len(t, doc.Ranks[1].Boxes, 2)

	// Element 4 runs from x=3 back to x=2.
	rec := findRecord(t, doc, 4)
	assert.Equal(t, uint32(1), rec.Proc, "owner rank comes from the partition")
	assert.Equal(t, []float64{2}, rec.Low)
	assert.Equal(t, []float64{3}, rec.High)

	totals, err := collector.Totals()
	require.NoError(t, err)
	assert.Equal(t, metrics.Totals{Boxes: 5, Traversals: 2}, totals)
}

func TestE2EBracketSurface(t *testing.T) {
	result := buildExample(t, "bracket.mesh", testConfig(t, nil), nil)

	doc := result.Document
	assert.Equal(t, 3, doc.Dim)
	assert.Equal(t, result.Elements, doc.BoxCount())
	assert.Greater(t, doc.BoxCount(), 100)

	tet := findRecord(t, doc, 900001)
	assert.Equal(t, []float64{60, 0, 0}, tet.Low)
	assert.Equal(t, []float64{61, 1, 1}, tet.High)

	// Surface triangles stay within the block, up to one grid cell.
	const tol = 2.5
	upper := []float64{40, 20, 10}
	for _, b := range doc.Ranks[0].Boxes {
		if b.ID == 900001 {
			continue
		}
		for d := 0; d < 3; d++ {
			assert.LessOrEqual(t, b.Low[d], b.High[d])
			assert.GreaterOrEqual(t, b.Low[d], -tol, "element %d axis %d", b.ID, d)
			assert.LessOrEqual(t, b.High[d], upper[d]+tol, "element %d axis %d", b.ID, d)
		}
	}
}

func TestBuildSourceError(t *testing.T) {
	app, err := NewApp(testConfig(t, nil), logging.Discard(), nil)
	require.NoError(t, err)

	_, err = app.Build(context.Background(), "(element 1 42)")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	require.NotEmpty(t, srcErr.Errors)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestBuildMissingCoordinates(t *testing.T) {
	collector := metrics.NewCollector()
	app, err := NewApp(testConfig(t, func(c *config.Config) { c.Ranks = 2 }), logging.Discard(), collector)
	require.NoError(t, err)

	source := `
(dim 2)
(node 1 0 0) (node 2 1 0) (node 3)
(element 10 1 2)
(element 11 2 3)
`
	_, err = app.Build(context.Background(), source)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bbox.ErrMissingCoordinate))
	assert.Contains(t, err.Error(), "rank 1")
	assert.Contains(t, err.Error(), "element 11")

	totals, err := collector.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1.0, totals.Failures)
}

func TestBuildEmptyElement(t *testing.T) {
	app, err := NewApp(testConfig(t, nil), logging.Discard(), nil)
	require.NoError(t, err)

	_, err = app.Build(context.Background(), "(element 3)")
	assert.ErrorIs(t, err, bbox.ErrEmptyElement)
}

func TestBuildNaNCoordinateExportsAsJSON(t *testing.T) {
	app, err := NewApp(testConfig(t, nil), logging.Discard(), nil)
	require.NoError(t, err)

	result, err := app.Build(context.Background(), "(dim 1) (node 1 (/ 0.0 0.0)) (node 2 1.0) (element 1 1 2)")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.JSON, result.Document))
	doc, err := export.Read(&buf, export.JSON)
	require.NoError(t, err)
	rec := findRecord(t, doc, 1)
	assert.True(t, math.IsNaN(rec.Low[0]))
	assert.True(t, math.IsNaN(rec.High[0]))
}

func TestBuildEmptySource(t *testing.T) {
	app, err := NewApp(testConfig(t, func(c *config.Config) { c.Ranks = 3 }), logging.Discard(), nil)
	require.NoError(t, err)

	result, err := app.Build(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, result.Document.BoxCount())
	assert.Len(t, result.Document.Ranks, 3)
}

func TestCLIBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "boxes.msgpack")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"build", "--ranks", "2", "--format", "msgpack", "--out", out,
		"--metrics", "--log-level", "error", "examples/quad.mesh"})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, stdout.String(), "output goes to --out")
	assert.Contains(t, stderr.String(), "4 boxes")
	assert.Contains(t, stderr.String(), metrics.BoxesBuiltName)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	doc, err := export.Read(f, export.Msgpack)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.BoxCount())
	require.Len(t, doc.Ranks, 2)
	assert.Equal(t, uint32(1), doc.Ranks[1].Boxes[0].Proc)
}

func TestCLIBuildYAMLToStdout(t *testing.T) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"build", "--format", "yaml", "examples/rod.mesh"})
	require.NoError(t, cmd.Execute())

	doc, err := export.Read(&stdout, export.YAML)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Dim)
	assert.Equal(t, 5, doc.BoxCount())
}

func TestCLIBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing source", []string{"build", "examples/nope.mesh"}},
		{"bad format", []string{"build", "--format", "csv", "examples/quad.mesh"}},
		{"bad ranks", []string{"build", "--ranks", "0", "examples/quad.mesh"}},
		{"no args", []string{"build"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestCLIVersion(t *testing.T) {
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), Version)
}
