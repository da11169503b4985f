package item

import (
	"github.com/opgraph/opgraph/pkg/conf"
)

// Function is a leaf item: one operation of a program. Its predecessors are
// the functions it reads from.
type Function struct {
	Node

	worker        *conf.Worker
	stats         *conf.RuntimeStats
	archivedTimes *conf.TimeRange
	numArcFiles   *int64
	numArcBytes   *int64
	allocArcBytes *int64
}

// NewFunction creates a function owned by prog.
func NewFunction(reg *Registry, prog *Program, name string, style Style) *Function {
	f := &Function{}
	var parent Item
	if prog != nil {
		parent = prog
	}
	f.init(f, reg, KindFunction, name, parent, style)
	return f
}

// Program returns the owning program.
func (f *Function) Program() *Program {
	p, _ := f.Parent().(*Program)
	return p
}

// Worker returns the last worker configuration, or nil.
func (f *Function) Worker() *conf.Worker { return f.worker }

// Stats returns the last runtime statistics, or nil.
func (f *Function) Stats() *conf.RuntimeStats { return f.stats }

// StorageProperties lists the keys whose change affects storage planning.
var StorageProperties = []string{
	"worker",
	"archives/times",
	"archives/num_files",
	"archives/current_size",
	"archives/alloc_size",
}

func (f *Function) SetProperty(key string, v conf.Value) error {
	switch key {
	case "worker":
		w, ok := v.(*conf.Worker)
		if !ok || w == nil {
			return rejected(key, "a worker", v)
		}
		f.worker = w
	case "stats/runtime":
		s, ok := v.(*conf.RuntimeStats)
		if !ok || s == nil {
			return rejected(key, "runtime stats", v)
		}
		f.stats = s
	case "archives/times":
		t, ok := v.(*conf.TimeRange)
		if !ok || t == nil {
			return rejected(key, "a time range", v)
		}
		f.archivedTimes = t
	case "archives/num_files", "archives/current_size", "archives/alloc_size":
		i, ok := conf.Int64(v)
		if !ok {
			return rejected(key, "an integer", v)
		}
		*f.counter(key) = &i
	default:
		return unsupportedProperty(key)
	}
	return nil
}

func (f *Function) counter(key string) **int64 {
	switch key {
	case "archives/num_files":
		return &f.numArcFiles
	case "archives/current_size":
		return &f.numArcBytes
	}
	return &f.allocArcBytes
}

func (f *Function) ClearProperty(key string) bool {
	switch key {
	case "worker":
		if f.worker == nil {
			return false
		}
		f.worker = nil
	case "stats/runtime":
		if f.stats == nil {
			return false
		}
		f.stats = nil
	case "archives/times":
		if f.archivedTimes == nil {
			return false
		}
		f.archivedTimes = nil
	case "archives/num_files", "archives/current_size", "archives/alloc_size":
		c := f.counter(key)
		if *c == nil {
			return false
		}
		*c = nil
	default:
		return false
	}
	return true
}

func (f *Function) release() {
	f.worker = nil
	f.stats = nil
	f.archivedTimes = nil
}

func (f *Function) Data(c Column) (any, error) {
	switch c {
	case ColName:
		return f.Name(), nil
	case ColNumParents:
		return len(f.Predecessors()), nil
	case ColNumChildren:
		return f.Registry().SuccessorCount(f.Handle()), nil
	case ColNumArcFiles:
		return deref(f.numArcFiles), nil
	case ColNumArcBytes:
		return deref(f.numArcBytes), nil
	case ColAllocedArcBytes:
		return deref(f.allocArcBytes), nil
	case ColArchivedTimes:
		if f.archivedTimes == nil {
			return nil, nil
		}
		return f.archivedTimes.String(), nil
	}
	if v, ok := f.workerData(c); ok {
		return v, nil
	}
	if v, ok := f.statsData(c); ok {
		return v, nil
	}
	return nil, unsupportedColumn(c)
}

func (f *Function) workerData(c Column) (any, bool) {
	w := f.worker
	pick := func(get func() any) (any, bool) {
		if w == nil {
			return nil, true
		}
		return get(), true
	}
	switch c {
	case ColWorkerTopHalf:
		return pick(func() any { return w.TopHalf })
	case ColWorkerEnabled:
		return pick(func() any { return w.Enabled })
	case ColWorkerDebug:
		return pick(func() any { return w.Debug })
	case ColWorkerUsed:
		return pick(func() any { return w.Used })
	case ColWorkerReportPeriod:
		return pick(func() any { return w.ReportPeriod })
	case ColWorkerSrcPath:
		return pick(func() any { return w.SrcPath })
	case ColWorkerParams:
		return pick(func() any { return w.ParamsString() })
	case ColWorkerSignature:
		return pick(func() any { return w.Signature })
	case ColWorkerBinSignature:
		return pick(func() any { return w.BinSignature })
	}
	return nil, false
}

func (f *Function) statsData(c Column) (any, bool) {
	s := f.stats
	pick := func(get func() any) (any, bool) {
		if s == nil {
			return nil, true
		}
		return get(), true
	}
	switch c {
	case ColStatsTime:
		return pick(func() any { return s.StatsTime })
	case ColStatsNumInputs:
		return pick(func() any { return s.NumInputs })
	case ColStatsNumSelected:
		return pick(func() any { return s.NumSelected })
	case ColStatsTotWaitIn:
		return pick(func() any { return s.TotWaitIn })
	case ColStatsTotInputBytes:
		return pick(func() any { return s.TotInputBytes })
	case ColStatsFirstInput:
		return pick(func() any { return derefF(s.FirstInput) })
	case ColStatsLastInput:
		return pick(func() any { return derefF(s.LastInput) })
	case ColStatsNumGroups:
		return pick(func() any { return s.NumGroups })
	case ColStatsNumOutputs:
		return pick(func() any { return s.NumOutputs })
	case ColStatsTotWaitOut:
		return pick(func() any { return s.TotWaitOut })
	case ColStatsFirstOutput:
		return pick(func() any { return derefF(s.FirstOutput) })
	case ColStatsLastOutput:
		return pick(func() any { return derefF(s.LastOutput) })
	case ColStatsTotOutputBytes:
		return pick(func() any { return s.TotOutputBytes })
	case ColStatsNumFiringNotifs:
		return pick(func() any { return s.NumFiringNotifs })
	case ColStatsNumExtinguishedNotifs:
		return pick(func() any { return s.NumExtinguished })
	case ColStatsMinEventTime:
		return pick(func() any { return derefF(s.MinEventTime) })
	case ColStatsMaxEventTime:
		return pick(func() any { return derefF(s.MaxEventTime) })
	case ColStatsTotCPU:
		return pick(func() any { return s.TotCPU })
	case ColStatsCurrentRAM:
		return pick(func() any { return s.CurrentRAM })
	case ColStatsMaxRAM:
		return pick(func() any { return s.MaxRAM })
	case ColStatsFirstStartup:
		return pick(func() any { return s.FirstStartup })
	case ColStatsLastStartup:
		return pick(func() any { return s.LastStartup })
	case ColStatsAverageTupleSize:
		return pick(func() any { return s.AvgTupleSize })
	case ColStatsNumAverageTupleSizeSamples:
		return pick(func() any { return s.NumAvgTupleSample })
	}
	return nil, false
}

// deref keeps "no value" as an untyped nil so callers can tell it from 0.
func deref(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefF(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
