// Package snapshot loads configuration snapshots from files.
//
// A snapshot is a list of entries, each a key with a typed value or a
// deletion marker. In YAML:
//
//	entries:
//	  - key: sites/s1/is_master
//	    type: bool
//	    value: true
//	  - key: sites/s1/workers/demo/f1/worker
//	    type: worker
//	    value:
//	      enabled: true
//	      parents:
//	        - {site: s1, program: demo, function: f0}
//	  - key: sites/s1/workers/demo/f1/stats/runtime
//	    delete: true
//
// The same layout is accepted in TOML ([[entries]] tables) and JSON.
// Supported types are bool, i64, float, string, worker, stats and
// time_range.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/opgraph/opgraph/pkg/conf"
	apperrors "github.com/opgraph/opgraph/pkg/errors"
)

// Entry is one decoded snapshot line. Value is nil when Delete is set.
type Entry struct {
	Key    string
	Value  conf.Value
	Delete bool
}

// Format identifies a snapshot encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	if err := apperrors.ValidateSnapshotPath(path); err != nil {
		return 0, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return FormatYAML, nil
}

// Load reads and decodes the snapshot at path.
func Load(path string) ([]Entry, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "read %s", path)
	}
	entries, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

var errMissingValue = errors.New("missing value")

// rawEntry is an entry whose value has not been decoded yet.
type rawEntry struct {
	key    string
	typ    string
	delete bool
	decode func(v any) error
}

// Decode reads a whole snapshot from r.
func Decode(r io.Reader, f Format) ([]Entry, error) {
	var (
		raws []rawEntry
		err  error
	)
	switch f {
	case FormatYAML:
		raws, err = readYAML(r)
	case FormatTOML:
		raws, err = readTOML(r)
	case FormatJSON:
		raws, err = readJSON(r)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown snapshot format %d", int(f))
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s snapshot", f)
	}

	entries := make([]Entry, 0, len(raws))
	for i, re := range raws {
		if re.key == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidKey, "entry %d: missing key", i)
		}
		if re.delete {
			entries = append(entries, Entry{Key: re.key, Delete: true})
			continue
		}
		v, err := decodeValue(re)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: re.key, Value: v})
	}
	return entries, nil
}

func decodeValue(re rawEntry) (conf.Value, error) {
	bad := func(err error) error {
		return apperrors.Wrap(apperrors.ErrCodeInvalidValue, err, "%s: %s value", re.key, re.typ)
	}
	switch re.typ {
	case "bool":
		var b bool
		if err := re.decode(&b); err != nil {
			return nil, bad(err)
		}
		return &conf.RamenValue{V: conf.VBool(b)}, nil
	case "i64":
		var i int64
		if err := re.decode(&i); err != nil {
			return nil, bad(err)
		}
		return &conf.RamenValue{V: conf.VI64(i)}, nil
	case "float":
		var x float64
		if err := re.decode(&x); err != nil {
			return nil, bad(err)
		}
		return &conf.RamenValue{V: conf.VFloat(x)}, nil
	case "string":
		var s string
		if err := re.decode(&s); err != nil {
			return nil, bad(err)
		}
		return &conf.RamenValue{V: conf.VString(s)}, nil
	case "worker":
		w := &conf.Worker{}
		if err := re.decode(w); err != nil {
			return nil, bad(err)
		}
		return w, nil
	case "stats":
		s := &conf.RuntimeStats{}
		if err := re.decode(s); err != nil {
			return nil, bad(err)
		}
		return s, nil
	case "time_range":
		t := &conf.TimeRange{}
		if err := re.decode(t); err != nil {
			return nil, bad(err)
		}
		return t, nil
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidValue, "%s: unknown value type %q", re.key, re.typ)
}

// =============================================================================
// Formats
// =============================================================================

func readYAML(r io.Reader) ([]rawEntry, error) {
	var doc struct {
		Entries []struct {
			Key    string    `yaml:"key"`
			Type   string    `yaml:"type"`
			Delete bool      `yaml:"delete"`
			Value  yaml.Node `yaml:"value"`
		} `yaml:"entries"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	raws := make([]rawEntry, len(doc.Entries))
	for i, e := range doc.Entries {
		node := e.Value
		raws[i] = rawEntry{key: e.Key, typ: e.Type, delete: e.Delete, decode: func(v any) error {
			if node.Kind == 0 {
				return errMissingValue
			}
			return node.Decode(v)
		}}
	}
	return raws, nil
}

func readTOML(r io.Reader) ([]rawEntry, error) {
	var doc struct {
		Entries []struct {
			Key    string         `toml:"key"`
			Type   string         `toml:"type"`
			Delete bool           `toml:"delete"`
			Value  *toml.Primitive `toml:"value"`
		} `toml:"entries"`
	}
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, err
	}
	raws := make([]rawEntry, len(doc.Entries))
	for i, e := range doc.Entries {
		prim := e.Value
		raws[i] = rawEntry{key: e.Key, typ: e.Type, delete: e.Delete, decode: func(v any) error {
			if prim == nil {
				return errMissingValue
			}
			return md.PrimitiveDecode(*prim, v)
		}}
	}
	return raws, nil
}

func readJSON(r io.Reader) ([]rawEntry, error) {
	var doc struct {
		Entries []struct {
			Key    string          `json:"key"`
			Type   string          `json:"type"`
			Delete bool            `json:"delete"`
			Value  json.RawMessage `json:"value"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	raws := make([]rawEntry, len(doc.Entries))
	for i, e := range doc.Entries {
		msg := e.Value
		raws[i] = rawEntry{key: e.Key, typ: e.Type, delete: e.Delete, decode: func(v any) error {
			if len(msg) == 0 {
				return errMissingValue
			}
			return json.Unmarshal(msg, v)
		}}
	}
	return raws, nil
}
