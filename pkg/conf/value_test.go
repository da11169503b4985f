package conf

import "testing"

func TestScalarHelpers(t *testing.T) {
	if i, ok := Int64(&RamenValue{V: VI64(42)}); !ok || i != 42 {
		t.Errorf("Int64 = %d, %v", i, ok)
	}
	if _, ok := Int64(&RamenValue{V: VString("42")}); ok {
		t.Error("Int64 accepted a string")
	}
	if _, ok := Int64(&Worker{}); ok {
		t.Error("Int64 accepted a worker")
	}
	if _, ok := Int64((*RamenValue)(nil)); ok {
		t.Error("Int64 accepted a nil value")
	}
	if b, ok := Bool(&RamenValue{V: VBool(true)}); !ok || !b {
		t.Errorf("Bool = %v, %v", b, ok)
	}
	if _, ok := Bool(&RamenValue{V: VI64(1)}); ok {
		t.Error("Bool accepted an integer")
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{&RamenValue{}, "NULL"},
		{&RamenValue{V: VString("a")}, `"a"`},
		{&RamenValue{V: VFloat(1.5)}, "1.5"},
		{&TimeRange{}, "empty"},
		{&TimeRange{Spans: []TimeSpan{{Since: 1, Until: 2}, {Since: 5, Until: 8}}}, "1..2, 5..8"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%T.String() = %q, want %q", tt.v, got, tt.want)
		}
	}

	w := &Worker{Params: map[string]string{"b": "2", "a": "1"}}
	if got := w.ParamsString(); got != "a=1, b=2" {
		t.Errorf("ParamsString() = %q", got)
	}
}
