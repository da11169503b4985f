package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opgraph/opgraph/pkg/cache"
	"github.com/opgraph/opgraph/pkg/item"
)

const snapshotYAML = `
entries:
  - {key: sites/s1/is_master, type: bool, value: true}
  - key: sites/s1/workers/demo/b/worker
    type: worker
    value: {parents: [{site: s1, program: demo, function: a}]}
  - {key: sites/s1/workers/demo/a/worker, type: worker, value: {enabled: true}}
`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cluster.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// memCache counts reads and writes.
type memCache struct {
	data       map[string][]byte
	gets, sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, json", []string{"svg", "json"}},
		{"dot,,png", []string{"dot", "png"}},
	}
	for _, tt := range tests {
		got := ParseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("missing path should fail")
	}

	opts = Options{Path: "cluster.yaml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger default not set")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}

	opts = Options{Path: "cluster.yaml", Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format should fail")
	}
}

func TestExecuteDOTAndJSON(t *testing.T) {
	r := NewRunner(nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Path:    writeSnapshot(t, snapshotYAML),
		Formats: []string{FormatDOT, FormatJSON},
		Columns: []item.Column{item.ColName, item.ColNumParents},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Items != 4 {
		t.Errorf("Items = %d, want 4", res.Stats.Items)
	}
	if res.Stats.Relations != 1 {
		t.Errorf("Relations = %d, want 1", res.Stats.Relations)
	}
	if res.CacheInfo.RenderHit {
		t.Error("uncached formats should not report a hit")
	}

	dot := string(res.Artifacts[FormatDOT])
	if dot != res.DOT || !strings.HasPrefix(dot, "digraph") {
		t.Errorf("dot artifact = %q", dot)
	}

	var doc struct {
		Sites []struct {
			Name string `json:"name"`
		} `json:"sites"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(doc.Sites) != 1 || doc.Sites[0].Name != "s1" {
		t.Errorf("sites = %+v", doc.Sites)
	}
	if len(doc.Edges) != 1 || doc.Edges[0].From != "s1/demo/a" || doc.Edges[0].To != "s1/demo/b" {
		t.Errorf("edges = %+v", doc.Edges)
	}
}

func TestExecuteMissingSnapshot(t *testing.T) {
	r := NewRunner(nil, nil)
	_, err := r.Execute(context.Background(), Options{
		Path:    filepath.Join(t.TempDir(), "none.yaml"),
		Formats: []string{FormatDOT},
	})
	if err == nil {
		t.Fatal("expected an error for a missing snapshot")
	}
}

func TestRenderUsesCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil)
	opts := Options{Path: writeSnapshot(t, snapshotYAML), Formats: []string{FormatSVG}}

	m, err := r.Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := r.RenderModel(ctx, m, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("RenderModel: %v", err)
	}

	key := cache.ArtifactKey(res.DOT, cache.ArtifactOpts{Format: FormatSVG})
	c.data[key] = []byte("<svg>cached</svg>")

	res, err = r.RenderModel(ctx, m, opts)
	if err != nil {
		t.Fatalf("RenderModel: %v", err)
	}
	if !res.CacheInfo.RenderHit {
		t.Error("expected a cache hit")
	}
	if got := string(res.Artifacts[FormatSVG]); got != "<svg>cached</svg>" {
		t.Errorf("svg = %q", got)
	}
	if c.sets != 0 {
		t.Errorf("cache written %d times on a hit", c.sets)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	if _, err := Render(context.Background(), nil, "", "pdf", Options{}); err == nil {
		t.Error("expected an error for pdf")
	}
}
