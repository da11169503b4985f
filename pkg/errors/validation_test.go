package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		allowSlash bool
		wantErr    bool
	}{
		{"valid simple", "site1", false, false},
		{"valid with dash", "edge-01", false, false},
		{"valid with dot", "web.example", false, false},
		{"program with slash", "monitoring/cpu", true, false},

		{"empty", "", false, true},
		{"too long", string(make([]byte, 300)), false, true},
		{"slash not allowed", "a/b", false, true},
		{"empty component", "a//b", true, true},
		{"trailing slash", "a/", true, true},
		{"dot dot", "a/../b", true, true},
		{"dot", "./a", true, true},
		{"null byte", "foo\x00bar", false, true},
		{"newline", "foo\nbar", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input, tt.allowSlash)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateSnapshotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"yaml", "cluster.yaml", ""},
		{"yml upper", "CLUSTER.YML", ""},
		{"toml", "dir/cluster.toml", ""},
		{"json", "/tmp/cluster.json", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"control", "a\x01.yaml", ErrCodeInvalidPath},
		{"no extension", "cluster", ErrCodeInvalidFormat},
		{"csv", "cluster.csv", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotPath(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateSnapshotPath(%q) code = %q, want %q (err %v)", tt.input, got, tt.wantCode, err)
			}
		})
	}
}
