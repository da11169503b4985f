package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opgraph/opgraph/pkg/cache"
	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/render/nodelink"
)

// Runner executes the pipeline with caching. It holds no per-run state.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses log.Default.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute loads the snapshot and renders every requested format.
//
// Entries the model rejects do not stop the run: they are logged and the
// partial model is rendered.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	loadStart := time.Now()
	m, err := r.Load(ctx, opts)
	if m == nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if err != nil {
		r.Logger.Warn("snapshot had rejected entries", "path", opts.Path)
	}
	loadTime := time.Since(loadStart)

	result, err := r.RenderModel(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// Load decodes the snapshot into a new model. The model is returned with
// the joined entry errors when some entries were rejected.
func (r *Runner) Load(ctx context.Context, opts Options) (*model.Model, error) {
	r.applyLogger(&opts)
	mopts := opts.Model
	if mopts.Logger == nil {
		mopts.Logger = opts.Logger
	}
	m, err := model.Load(ctx, opts.Path, mopts)
	if m != nil {
		opts.Logger.Info("loaded snapshot",
			"path", opts.Path,
			"items", m.Len(),
			"pending", m.PendingCount())
	}
	return m, err
}

// RenderModel renders an already loaded model.
func (r *Runner) RenderModel(ctx context.Context, m *model.Model, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	dot := nodelink.ToDOT(m, nodelink.Options{Columns: opts.Columns, Title: opts.Title})
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, m, dot, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Model:     m,
		DOT:       dot,
		Artifacts: artifacts,
		Stats: Stats{
			Items:      m.Len(),
			Relations:  len(m.Relations()),
			Pending:    m.PendingCount(),
			RenderTime: time.Since(start),
		},
		CacheInfo: CacheInfo{RenderHit: hit},
	}
	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderWithCacheInfo renders every format of opts, reading Graphviz
// formats from the cache when possible. The flag reports whether every
// cached format was a hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *model.Model, dot string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	anyCached := false

	for _, format := range opts.Formats {
		if !cachedFormats[format] {
			data, err := Render(ctx, m, dot, format, opts)
			if err != nil {
				return nil, false, err
			}
			artifacts[format] = data
			continue
		}

		anyCached = true
		key := cache.ArtifactKey(dot, cache.ArtifactOpts{Format: format, Title: opts.Title})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := Render(ctx, m, dot, format, opts)
		if err != nil {
			return nil, false, err
		}
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
		}
		artifacts[format] = data
	}
	return artifacts, anyCached && allHit, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
