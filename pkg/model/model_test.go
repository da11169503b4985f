package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/opgraph/opgraph/pkg/conf"
	"github.com/opgraph/opgraph/pkg/conf/snapshot"
	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
)

// recorder collects model events as short strings.
type recorder struct{ events []string }

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnItemAdded(path, kind string) {
	r.add("add %s %s", kind, path)
}

func (r *recorder) OnItemRemoved(path, kind string) {
	r.add("del %s %s", kind, path)
}

func (r *recorder) OnRelationAdded(from, to string) {
	r.add("link %s -> %s", from, to)
}

func (r *recorder) OnRelationRemoved(from, to string) {
	r.add("unlink %s -> %s", from, to)
}

func (r *recorder) OnDataChanged(path, key string) {
	r.add("data %s %s", path, key)
}

func (r *recorder) OnStorageChanged(path, key string) {
	r.add("storage %s %s", path, key)
}

func (r *recorder) OnPositionChanged(path string, row int) {
	r.add("row %s %d", path, row)
}

func (r *recorder) OnCollapseChanged(path string, collapsed bool) {
	r.add("collapse %s %v", path, collapsed)
}

func (r *recorder) has(event string) bool { return slices.Contains(r.events, event) }

func (r *recorder) count(prefix string) int {
	n := 0
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

func newTestModel() (*Model, *recorder) {
	rec := &recorder{}
	return New(Options{Hooks: rec}), rec
}

// worker builds a worker reading from the given "site/program/function"
// parents.
func worker(parents ...string) *conf.Worker {
	w := &conf.Worker{Enabled: true}
	for _, p := range parents {
		parts := strings.Split(p, "/")
		w.Parents = append(w.Parents, conf.ParentRef{Site: parts[0], Program: parts[1], Function: parts[2]})
	}
	return w
}

func workerKey(path string) string {
	site, rest, _ := strings.Cut(path, "/")
	return "sites/" + site + "/workers/" + rest + "/worker"
}

func mustUpdate(t *testing.T, m *Model, key string, v conf.Value) {
	t.Helper()
	if err := m.UpdateKey(key, v); err != nil {
		t.Fatalf("UpdateKey(%s): %v", key, err)
	}
}

func mustFunction(t *testing.T, m *Model, path string) *item.Function {
	t.Helper()
	parts := strings.Split(path, "/")
	f, ok := m.FindFunction(parts[0], parts[1], parts[2])
	if !ok {
		t.Fatalf("no function %s", path)
	}
	return f
}

func predPaths(f *item.Function) []string {
	var out []string
	for _, p := range f.Predecessors() {
		out = append(out, p.Base().Path())
	}
	slices.Sort(out)
	return out
}

func TestUpdateKeyCreatesHierarchy(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/demo/f1"), worker())

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	for _, e := range []string{
		"add site s1",
		"add program s1/demo",
		"add function s1/demo/f1",
		"row s1 0",
		"row s1/demo 0",
		"row s1/demo/f1 0",
		"data s1/demo/f1 worker",
	} {
		if !rec.has(e) {
			t.Errorf("missing event %q in %v", e, rec.events)
		}
	}

	// A second key on the same function creates nothing.
	rec.events = nil
	mustUpdate(t, m, "sites/s1/workers/demo/f1/archives/num_files", &conf.RamenValue{V: conf.VI64(3)})
	if rec.count("add") != 0 || m.Len() != 3 {
		t.Errorf("second key added items: %v", rec.events)
	}
	f := mustFunction(t, m, "s1/demo/f1")
	if v, _ := f.Data(item.ColNumArcFiles); v != int64(3) {
		t.Errorf("NumArcFiles = %v, want 3", v)
	}
}

func TestSiteAndProgramOrder(t *testing.T) {
	m, _ := newTestModel()
	for _, k := range []string{"s2/zeta/f", "s1/beta/f", "s2/alpha/f", "s2/mid/f"} {
		mustUpdate(t, m, workerKey(k), worker())
	}

	var sites []string
	for i := range m.RowCount(nil) {
		s, _ := m.Index(i, nil)
		sites = append(sites, s.Base().Name())
		if s.Base().Row() != i {
			t.Errorf("site %s row = %d, want %d", s.Base().Name(), s.Base().Row(), i)
		}
	}
	if got := strings.Join(sites, ","); got != "s2,s1" {
		t.Errorf("sites = %s, want insertion order s2,s1", got)
	}

	s2, _ := m.Site("s2")
	var progs []string
	for i := range m.RowCount(s2) {
		p, ok := m.Index(i, s2)
		if !ok {
			t.Fatalf("Index(%d, s2) missing", i)
		}
		progs = append(progs, p.Base().Name())
		if p.Base().Row() != i {
			t.Errorf("program %s row = %d, want %d", p.Base().Name(), p.Base().Row(), i)
		}
	}
	if got := strings.Join(progs, ","); got != "alpha,mid,zeta" {
		t.Errorf("programs = %s, want alpha,mid,zeta", got)
	}

	if s1, _ := m.Site("s1"); s1.Pos().Y != m.Layout().SiteSpacing {
		t.Errorf("s1 pos = %v", s1.Pos())
	}
	if _, ok := m.Index(5, nil); ok {
		t.Error("Index(5, nil) should be out of range")
	}
}

func TestPredecessorsResolveImmediately(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s1/p/b"), worker())
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/a", "s1/p/b"))

	c := mustFunction(t, m, "s1/p/c")
	if got := predPaths(c); !slices.Equal(got, []string{"s1/p/a", "s1/p/b"}) {
		t.Errorf("preds = %v", got)
	}
	if v, _ := c.Data(item.ColNumParents); v != 2 {
		t.Errorf("NumParents = %v, want 2", v)
	}
	a := mustFunction(t, m, "s1/p/a")
	if v, _ := a.Data(item.ColNumChildren); v != 1 {
		t.Errorf("a NumChildren = %v, want 1", v)
	}
	if !rec.has("link s1/p/a -> s1/p/c") || !rec.has("link s1/p/b -> s1/p/c") {
		t.Errorf("missing link events: %v", rec.events)
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d", m.PendingCount())
	}
	if n := len(m.Relations()); n != 2 {
		t.Errorf("Relations() = %d, want 2", n)
	}
}

func TestPendingParents(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/child"), worker("s1/p/parent"))

	child := mustFunction(t, m, "s1/p/child")
	if len(child.Predecessors()) != 0 || m.PendingCount() != 1 {
		t.Fatalf("before parent: preds=%d pending=%d", len(child.Predecessors()), m.PendingCount())
	}

	// Any key creating the parent resolves the edge.
	mustUpdate(t, m, "sites/s1/workers/p/parent/stats/runtime", &conf.RuntimeStats{})
	if got := predPaths(child); !slices.Equal(got, []string{"s1/p/parent"}) {
		t.Errorf("preds = %v", got)
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d", m.PendingCount())
	}
	if !rec.has("link s1/p/parent -> s1/p/child") {
		t.Errorf("missing link event: %v", rec.events)
	}
}

func TestRemoteParentIsTopHalf(t *testing.T) {
	m, _ := newTestModel()
	// s2/p/f reads from s1/other/src: the top-half of p/f runs on s1.
	mustUpdate(t, m, workerKey("s2/p/f"), worker("s1/other/src"))
	mustUpdate(t, m, workerKey("s1/other/src"), worker())

	f := mustFunction(t, m, "s2/p/f")
	if len(f.Predecessors()) != 0 || m.PendingCount() != 1 {
		t.Fatalf("connected to the remote function itself: %v", predPaths(f))
	}

	mustUpdate(t, m, workerKey("s1/p/f"), &conf.Worker{TopHalf: true})
	if got := predPaths(f); !slices.Equal(got, []string{"s1/p/f"}) {
		t.Errorf("preds = %v, want the top-half s1/p/f", got)
	}
}

func TestWorkerUpdateReplacesParents(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s1/p/b"), worker())
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/a", "s1/p/missing"))
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/b"))

	c := mustFunction(t, m, "s1/p/c")
	if got := predPaths(c); !slices.Equal(got, []string{"s1/p/b"}) {
		t.Errorf("preds = %v, want [s1/p/b]", got)
	}
	if m.PendingCount() != 0 {
		t.Errorf("stale pending parent kept: %d", m.PendingCount())
	}
	if !rec.has("unlink s1/p/a -> s1/p/c") {
		t.Errorf("missing unlink event: %v", rec.events)
	}
}

func TestDeleteWorkerRemovesParents(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/a", "s1/p/later"))

	if err := m.DeleteKey(workerKey("s1/p/c")); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	c := mustFunction(t, m, "s1/p/c")
	if c.Worker() != nil {
		t.Error("worker still set")
	}
	if len(c.PredecessorHandles()) != 0 || m.PendingCount() != 0 {
		t.Errorf("preds=%d pending=%d after delete", len(c.PredecessorHandles()), m.PendingCount())
	}
	if !rec.has("unlink s1/p/a -> s1/p/c") || !rec.has("data s1/p/c worker") {
		t.Errorf("events = %v", rec.events)
	}

	// The later function no longer connects.
	mustUpdate(t, m, workerKey("s1/p/later"), worker())
	if len(c.Predecessors()) != 0 {
		t.Error("deleted worker still resolved a pending parent")
	}

	// Deleting again, or deleting unknown items, does nothing.
	rec.events = nil
	for _, k := range []string{workerKey("s1/p/c"), workerKey("s9/p/c"), "sites/s1/is_master"} {
		if err := m.DeleteKey(k); err != nil {
			t.Errorf("DeleteKey(%s): %v", k, err)
		}
	}
	if len(rec.events) != 0 {
		t.Errorf("no-op deletes emitted %v", rec.events)
	}
}

func TestRemoveFunctionPurgesSuccessors(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s1/p/b"), worker())
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/a", "s1/p/b"))

	if err := m.RemoveFunction("s1", "p", "a"); err != nil {
		t.Fatalf("RemoveFunction: %v", err)
	}
	c := mustFunction(t, m, "s1/p/c")
	if got := predPaths(c); !slices.Equal(got, []string{"s1/p/b"}) {
		t.Errorf("preds = %v", got)
	}
	if n := len(c.PredecessorHandles()); n != 1 {
		t.Errorf("stale handle kept: %d handles", n)
	}
	if v, _ := c.Data(item.ColNumParents); v != 1 {
		t.Errorf("NumParents = %v, want 1", v)
	}
	if !rec.has("unlink s1/p/a -> s1/p/c") || !rec.has("del function s1/p/a") {
		t.Errorf("events = %v", rec.events)
	}

	// Rows stay contiguous.
	p := c.Program()
	for i, f := range p.Functions() {
		if f.Row() != i {
			t.Errorf("%s row = %d, want %d", f.Name(), f.Row(), i)
		}
	}
}

func TestRemoveAllParents(t *testing.T) {
	m, _ := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s1/p/b"), worker())
	mustUpdate(t, m, workerKey("s1/q/c"), worker("s1/p/a", "s1/p/b"))

	if err := m.RemoveProgram("s1", "p"); err != nil {
		t.Fatalf("RemoveProgram: %v", err)
	}
	c := mustFunction(t, m, "s1/q/c")
	if len(c.Predecessors()) != 0 || len(c.PredecessorHandles()) != 0 {
		t.Errorf("preds after removing both parents: %v", c.PredecessorHandles())
	}
	if v, _ := c.Data(item.ColNumParents); v != 0 {
		t.Errorf("NumParents = %v, want 0", v)
	}
	if q := c.Program(); q.Row() != 0 {
		t.Errorf("q row = %d, want 0", q.Row())
	}
}

func TestRemoveSite(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/a"), worker())
	mustUpdate(t, m, workerKey("s2/p/b"), worker())
	mustUpdate(t, m, workerKey("s3/p/c"), worker("s3/p/b", "s1/p/c"))

	if err := m.RemoveSite("s1"); err != nil {
		t.Fatalf("RemoveSite: %v", err)
	}
	if m.Len() != 6 {
		t.Errorf("Len() = %d, want 6", m.Len())
	}
	if rec.count("del ") != 3 {
		t.Errorf("removed %d items, want 3: %v", rec.count("del "), rec.events)
	}
	for i, s := range m.Sites() {
		if s.Row() != i {
			t.Errorf("site %s row = %d, want %d", s.Name(), s.Row(), i)
		}
	}
	if !rec.has("row s2 0") {
		t.Errorf("s2 was not moved up: %v", rec.events)
	}

	if err := m.RemoveSite("s1"); !apperrors.Is(err, apperrors.ErrCodeItemNotFound) {
		t.Errorf("second RemoveSite err = %v", err)
	}
	if err := m.RemoveFunction("s2", "p", "zz"); !apperrors.Is(err, apperrors.ErrCodeItemNotFound) {
		t.Errorf("RemoveFunction unknown err = %v", err)
	}
}

func TestRemoveDropsPendingOfRemovedChildren(t *testing.T) {
	m, _ := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/c"), worker("s1/p/later"))
	if m.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d", m.PendingCount())
	}
	f := mustFunction(t, m, "s1/p/c")
	if err := m.Remove(f); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after removing the child", m.PendingCount())
	}
	mustUpdate(t, m, workerKey("s1/p/later"), worker())
	if m.Len() != 3 {
		t.Errorf("Len() = %d", m.Len())
	}
}

func TestUpdateKeyErrors(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, "sites/s1/is_master", &conf.RamenValue{V: conf.VBool(true)})

	tests := []struct {
		name string
		key  string
		v    conf.Value
		code apperrors.Code
	}{
		{"invalid key", "nodes/s1", &conf.RamenValue{}, apperrors.ErrCodeInvalidKey},
		{"bad program name", "sites/s1/workers/a//b/f/worker", worker(), apperrors.ErrCodeInvalidName},
		{"rejected is_master", "sites/s1/is_master", &conf.RamenValue{V: conf.VI64(1)}, apperrors.ErrCodeRejectedUpdate},
		{"rejected worker", workerKey("s1/p/f"), &conf.RuntimeStats{}, apperrors.ErrCodeRejectedUpdate},
		{"ignored instance property", "sites/s1/workers/p/f/instances/abc/pid", &conf.RamenValue{V: conf.VI64(1)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.UpdateKey(tt.key, tt.v)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}

	s, _ := m.Site("s1")
	if !s.IsMaster() {
		t.Error("rejected update changed is_master")
	}
	if rec.has("data s1/p/f pid") {
		t.Error("ignored property reported a change")
	}
}

func TestSetCollapsed(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/f"), worker())
	s, _ := m.Site("s1")
	rec.events = nil

	m.SetCollapsed(s, true)
	m.SetCollapsed(s, true)
	if rec.count("collapse") != 1 {
		t.Errorf("events = %v, want one collapse", rec.events)
	}
	f := mustFunction(t, m, "s1/p/f")
	if f.IsVisible() {
		t.Error("function visible under a collapsed site")
	}
	if f.Program().Collapsed() {
		t.Error("collapse cascaded to the program flag")
	}

	m.SetCollapsed(s, false)
	if !f.IsVisible() || !rec.has("collapse s1 false") {
		t.Errorf("expand failed: %v", rec.events)
	}
}

func TestFindAndData(t *testing.T) {
	m, _ := newTestModel()
	mustUpdate(t, m, workerKey("s1/a/b/f"), worker())

	if it, ok := m.Find("s1", "", ""); !ok || it.Base().Kind() != item.KindSite {
		t.Errorf("Find site = %v, %v", it, ok)
	}
	if it, ok := m.Find("s1", "a/b", ""); !ok || it.Base().Kind() != item.KindProgram {
		t.Errorf("Find program = %v, %v", it, ok)
	}
	if _, ok := m.Find("s1", "a", ""); ok {
		t.Error("Find matched a program prefix")
	}
	it, ok := m.FindPath("s1/a/b/f")
	if !ok || it.Base().Kind() != item.KindFunction {
		t.Fatalf("FindPath = %v, %v", it, ok)
	}

	if v, err := m.Data(it, item.ColName); err != nil || v != "f" {
		t.Errorf("Data(Name) = %v, %v", v, err)
	}
	if _, err := m.Data(it, item.NumColumns); !apperrors.Is(err, apperrors.ErrCodeInvalidColumn) {
		t.Errorf("Data(NumColumns) err = %v", err)
	}
	if _, err := m.Data(nil, item.ColName); !apperrors.Is(err, apperrors.ErrCodeItemNotFound) {
		t.Errorf("Data(nil) err = %v", err)
	}
}

func TestApply(t *testing.T) {
	m, _ := newTestModel()
	err := m.Apply([]snapshot.Entry{
		{Key: workerKey("s1/p/a"), Value: worker()},
		{Key: "bogus", Value: worker()},
		{Key: workerKey("s1/p/b"), Value: worker("s1/p/a")},
		{Key: workerKey("s1/p/a"), Delete: true},
	})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidKey) {
		t.Errorf("Apply err = %v, want the invalid key reported", err)
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4: later entries must still apply", m.Len())
	}
	if a := mustFunction(t, m, "s1/p/a"); a.Worker() != nil {
		t.Error("delete entry not applied")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster.yaml")
	data := `
entries:
  - {key: sites/s1/is_master, type: bool, value: true}
  - key: sites/s1/workers/p/b/worker
    type: worker
    value: {parents: [{site: s1, program: p, function: a}]}
  - {key: sites/s1/workers/p/a/worker, type: worker, value: {enabled: true}}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := mustFunction(t, m, "s1/p/b")
	if got := predPaths(b); !slices.Equal(got, []string{"s1/p/a"}) {
		t.Errorf("preds = %v", got)
	}
	s, _ := m.Site("s1")
	if v, _ := s.Data(item.ColName); v != "s1 (master)" {
		t.Errorf("site name = %v", v)
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), Options{}); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestCell(t *testing.T) {
	m, _ := newTestModel()
	mustUpdate(t, m, workerKey("s1/p/f"), &conf.Worker{Enabled: true, ReportPeriod: 30})
	mustUpdate(t, m, "sites/s1/workers/p/f/stats/runtime", &conf.RuntimeStats{TotCPU: 1.25, NumInputs: 7})
	f := mustFunction(t, m, "s1/p/f")

	tests := []struct {
		col  item.Column
		want string
	}{
		{item.ColName, "f"},
		{item.ColWorkerEnabled, "yes"},
		{item.ColWorkerDebug, "no"},
		{item.ColWorkerReportPeriod, "30"},
		{item.ColStatsTotCPU, "1.250"},
		{item.ColStatsNumInputs, "7"},
		{item.ColStatsFirstInput, ""},
		{item.ColNumArcFiles, ""},
		{item.ColActionButton, ""},
	}
	for _, tt := range tests {
		if got := Cell(f, tt.col); got != tt.want {
			t.Errorf("Cell(%s) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestFindPathWithSlashedProgram(t *testing.T) {
	m, _ := newTestModel()
	// Function b of program a, and function f of program a/b.
	mustUpdate(t, m, workerKey("s1/a/b"), worker())
	mustUpdate(t, m, workerKey("s1/a/b/f"), worker())

	b := mustFunction(t, m, "s1/a/b")
	prog, ok := m.Find("s1", "a/b", "")
	if !ok {
		t.Fatal("no program a/b")
	}
	if b.Path() == prog.Base().Path() {
		t.Fatalf("function and program share the path %q", b.Path())
	}
	if got := prog.Base().Path(); got != "s1/a%2Fb" {
		t.Errorf("program path = %q, want s1/a%%2Fb", got)
	}
	f, ok := m.FindFunction("s1", "a/b", "f")
	if !ok {
		t.Fatal("no function a/b/f")
	}

	tests := []struct {
		path string
		want item.Item
	}{
		{b.Path(), b},
		{prog.Base().Path(), prog},
		{"s1/a%2Fb/f", f},
		{"s1/a/b/f", f},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := m.FindPath(tt.path)
			if !ok || got != tt.want {
				t.Errorf("FindPath(%q) = %v, %v; want %s", tt.path, got, ok, tt.want.Base().Path())
			}
		})
	}

	// Every item round-trips through its own path.
	m.Walk(func(it item.Item, _ int) bool {
		if got, ok := m.FindPath(it.Base().Path()); !ok || got != it {
			t.Errorf("FindPath(%q) did not return the item", it.Base().Path())
		}
		return true
	})
}

func TestFindPathRawAmbiguous(t *testing.T) {
	m, _ := newTestModel()
	mustUpdate(t, m, workerKey("s1/x/y/z"), worker())
	mustUpdate(t, m, workerKey("s1/x/y/z/f"), worker())

	// "s1/x/y/z" is function z of x/y and program x/y/z.
	if it, ok := m.FindPath("s1/x/y/z"); ok {
		t.Errorf("ambiguous raw path resolved to %s", it.Base().Path())
	}
	if it, ok := m.FindPath("s1/x%2Fy/z"); !ok || it.Base().Kind() != item.KindFunction {
		t.Errorf("escaped function path = %v, %v", it, ok)
	}
	if _, ok := m.FindPath("s2/x"); ok {
		t.Error("unknown site resolved")
	}
}

func TestStorageChanged(t *testing.T) {
	m, rec := newTestModel()
	mustUpdate(t, m, "sites/s1/is_master", &conf.RamenValue{V: conf.VBool(true)})
	mustUpdate(t, m, workerKey("s1/p/f"), worker())
	mustUpdate(t, m, "sites/s1/workers/p/f/archives/num_files", &conf.RamenValue{V: conf.VI64(3)})
	mustUpdate(t, m, "sites/s1/workers/p/f/stats/runtime", &conf.RuntimeStats{})

	for _, want := range []string{
		"storage s1/p/f worker",
		"storage s1/p/f archives/num_files",
	} {
		if !rec.has(want) {
			t.Errorf("missing %q in %v", want, rec.events)
		}
	}
	if n := rec.count("storage"); n != 2 {
		t.Errorf("storage events = %d, want 2: %v", n, rec.events)
	}

	rec.events = nil
	if err := m.DeleteKey("sites/s1/workers/p/f/archives/num_files"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteKey("sites/s1/workers/p/f/archives/num_files"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteKey("sites/s1/is_master"); err != nil {
		t.Fatal(err)
	}
	if n := rec.count("storage"); n != 1 || !rec.has("storage s1/p/f archives/num_files") {
		t.Errorf("events after delete = %v", rec.events)
	}
}
