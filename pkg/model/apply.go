package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/opgraph/opgraph/pkg/conf/snapshot"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/observability"
)

// Apply feeds snapshot entries to the model in order. It keeps going after
// a failed entry and returns every failure joined.
func (m *Model) Apply(entries []snapshot.Entry) error {
	var errs []error
	for _, e := range entries {
		var err error
		if e.Delete {
			err = m.DeleteKey(e.Key)
		} else {
			err = m.UpdateKey(e.Key, e.Value)
		}
		if err != nil {
			m.logger.Warn("skipped entry", "key", e.Key, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads the snapshot at path into a new model.
func Load(ctx context.Context, path string, opts Options) (*Model, error) {
	hooks := observability.Load()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	entries, err := snapshot.Load(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		hooks.OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return nil, err
	}

	m := New(opts)
	err = m.Apply(entries)
	hooks.OnLoadComplete(ctx, path, len(entries), time.Since(start), err)
	m.logger.Debug("loaded snapshot", "path", path, "entries", len(entries), "items", m.Len())
	return m, err
}

// Cell formats the value of column c for display. Unsupported columns and
// missing data both render empty.
func Cell(it item.Item, c item.Column) string {
	v, err := it.Data(c)
	if err != nil || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'f', 3, 64)
	}
	return fmt.Sprint(v)
}
