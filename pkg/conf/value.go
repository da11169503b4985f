// Package conf defines the pre-decoded configuration values and keys that
// flow from the configuration server into the operations model.
//
// Values arrive already decoded: nothing in this package reads a wire or
// file format. See the snapshot subpackage for loading values from files.
package conf

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Value is a decoded configuration value. The concrete types are closed:
// [*Worker], [*RuntimeStats], [*TimeRange] and [*RamenValue].
type Value interface {
	fmt.Stringer
	isValue()
}

// ParentRef names an upstream function a worker reads from.
type ParentRef struct {
	Site     string `json:"site" yaml:"site" toml:"site"`
	Program  string `json:"program" yaml:"program" toml:"program"`
	Function string `json:"function" yaml:"function" toml:"function"`
}

func (r ParentRef) String() string {
	return r.Site + "/" + r.Program + "/" + r.Function
}

// Worker describes how a function is run on a site.
type Worker struct {
	Enabled      bool              `json:"enabled" yaml:"enabled" toml:"enabled"`
	Debug        bool              `json:"debug" yaml:"debug" toml:"debug"`
	Used         bool              `json:"used" yaml:"used" toml:"used"`
	TopHalf      bool              `json:"top_half" yaml:"top_half" toml:"top_half"`
	ReportPeriod float64           `json:"report_period" yaml:"report_period" toml:"report_period"`
	SrcPath      string            `json:"src_path" yaml:"src_path" toml:"src_path"`
	Params       map[string]string `json:"params" yaml:"params" toml:"params"`
	Signature    string            `json:"signature" yaml:"signature" toml:"signature"`
	BinSignature string            `json:"bin_signature" yaml:"bin_signature" toml:"bin_signature"`
	Parents      []ParentRef       `json:"parents" yaml:"parents" toml:"parents"`
}

func (*Worker) isValue() {}

func (w *Worker) String() string {
	return fmt.Sprintf("worker(%s, %d parents)", w.Signature, len(w.Parents))
}

// ParamsString renders the parameters sorted by name, "k=v" comma separated.
func (w *Worker) ParamsString() string {
	parts := make([]string, 0, len(w.Params))
	for _, k := range slices.Sorted(maps.Keys(w.Params)) {
		parts = append(parts, k+"="+w.Params[k])
	}
	return strings.Join(parts, ", ")
}

// RuntimeStats are the statistics a worker reports periodically.
// Optional timestamps are nil until the worker has seen the event.
type RuntimeStats struct {
	StatsTime         float64  `json:"stats_time" yaml:"stats_time" toml:"stats_time"`
	FirstStartup      float64  `json:"first_startup" yaml:"first_startup" toml:"first_startup"`
	LastStartup       float64  `json:"last_startup" yaml:"last_startup" toml:"last_startup"`
	MinEventTime      *float64 `json:"min_etime,omitempty" yaml:"min_etime,omitempty" toml:"min_etime,omitempty"`
	MaxEventTime      *float64 `json:"max_etime,omitempty" yaml:"max_etime,omitempty" toml:"max_etime,omitempty"`
	FirstInput        *float64 `json:"first_input,omitempty" yaml:"first_input,omitempty" toml:"first_input,omitempty"`
	LastInput         *float64 `json:"last_input,omitempty" yaml:"last_input,omitempty" toml:"last_input,omitempty"`
	FirstOutput       *float64 `json:"first_output,omitempty" yaml:"first_output,omitempty" toml:"first_output,omitempty"`
	LastOutput        *float64 `json:"last_output,omitempty" yaml:"last_output,omitempty" toml:"last_output,omitempty"`
	NumInputs         int64    `json:"num_inputs" yaml:"num_inputs" toml:"num_inputs"`
	NumSelected       int64    `json:"num_selected" yaml:"num_selected" toml:"num_selected"`
	TotWaitIn         float64  `json:"tot_wait_in" yaml:"tot_wait_in" toml:"tot_wait_in"`
	TotInputBytes     int64    `json:"tot_input_bytes" yaml:"tot_input_bytes" toml:"tot_input_bytes"`
	NumGroups         int64    `json:"num_groups" yaml:"num_groups" toml:"num_groups"`
	NumOutputs        int64    `json:"num_outputs" yaml:"num_outputs" toml:"num_outputs"`
	TotWaitOut        float64  `json:"tot_wait_out" yaml:"tot_wait_out" toml:"tot_wait_out"`
	TotOutputBytes    int64    `json:"tot_output_bytes" yaml:"tot_output_bytes" toml:"tot_output_bytes"`
	NumFiringNotifs   int64    `json:"num_firing_notifs" yaml:"num_firing_notifs" toml:"num_firing_notifs"`
	NumExtinguished   int64    `json:"num_extinguished_notifs" yaml:"num_extinguished_notifs" toml:"num_extinguished_notifs"`
	TotCPU            float64  `json:"tot_cpu" yaml:"tot_cpu" toml:"tot_cpu"`
	CurrentRAM        int64    `json:"cur_ram" yaml:"cur_ram" toml:"cur_ram"`
	MaxRAM            int64    `json:"max_ram" yaml:"max_ram" toml:"max_ram"`
	AvgTupleSize      float64  `json:"avg_full_bytes" yaml:"avg_full_bytes" toml:"avg_full_bytes"`
	NumAvgTupleSample int64    `json:"num_avg_full_bytes" yaml:"num_avg_full_bytes" toml:"num_avg_full_bytes"`
}

func (*RuntimeStats) isValue() {}

func (s *RuntimeStats) String() string {
	return fmt.Sprintf("stats(in=%d out=%d)", s.NumInputs, s.NumOutputs)
}

// TimeSpan is a half-open [Since, Until) interval of event time.
type TimeSpan struct {
	Since float64 `json:"since" yaml:"since" toml:"since"`
	Until float64 `json:"until" yaml:"until" toml:"until"`
}

// TimeRange is the set of event times available in a function's archive.
type TimeRange struct {
	Spans []TimeSpan `json:"spans" yaml:"spans" toml:"spans"`
}

func (*TimeRange) isValue() {}

func (t *TimeRange) String() string {
	if len(t.Spans) == 0 {
		return "empty"
	}
	parts := make([]string, len(t.Spans))
	for i, s := range t.Spans {
		parts[i] = fmt.Sprintf("%g..%g", s.Since, s.Until)
	}
	return strings.Join(parts, ", ")
}

// Scalar is a typed runtime value carried by [RamenValue].
type Scalar interface {
	fmt.Stringer
	isScalar()
}

// VBool is a boolean scalar.
type VBool bool

// VI64 is a signed 64 bits integer scalar.
type VI64 int64

// VFloat is a float scalar.
type VFloat float64

// VString is a string scalar.
type VString string

func (VBool) isScalar()   {}
func (VI64) isScalar()    {}
func (VFloat) isScalar()  {}
func (VString) isScalar() {}

func (v VBool) String() string   { return strconv.FormatBool(bool(v)) }
func (v VI64) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v VFloat) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v VString) String() string { return strconv.Quote(string(v)) }

// RamenValue wraps a single scalar.
type RamenValue struct {
	V Scalar
}

func (*RamenValue) isValue() {}

func (r *RamenValue) String() string {
	if r.V == nil {
		return "NULL"
	}
	return r.V.String()
}

// Int64 unwraps v as a [VI64]. ok is false for any other value or scalar.
func Int64(v Value) (int64, bool) {
	rv, ok := v.(*RamenValue)
	if !ok || rv == nil {
		return 0, false
	}
	i, ok := rv.V.(VI64)
	return int64(i), ok
}

// Bool unwraps v as a [VBool]. ok is false for any other value or scalar.
func Bool(v Value) (bool, bool) {
	rv, ok := v.(*RamenValue)
	if !ok || rv == nil {
		return false, false
	}
	b, ok := rv.V.(VBool)
	return bool(b), ok
}
