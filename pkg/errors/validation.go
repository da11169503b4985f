package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds site, program and function names.
const maxNameLength = 256

// ValidateName validates a site, program or function name taken from a
// configuration key. Program names may contain slashes, so allowSlash is
// set for them only.
//
// The validation rules:
//   - No empty names
//   - No control characters
//   - No empty path components (//) or "." and ".." components
//   - Maximum length of 256 characters
func ValidateName(name string, allowSlash bool) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	if !allowSlash && strings.Contains(name, "/") {
		return New(ErrCodeInvalidName, "name cannot contain '/': %q", name)
	}

	for _, part := range strings.Split(name, "/") {
		switch part {
		case "":
			return New(ErrCodeInvalidName, "name has an empty component: %q", name)
		case ".", "..":
			return New(ErrCodeInvalidName, "name has a relative component: %q", name)
		}
	}

	return nil
}

// snapshotExts lists the file extensions a snapshot can be decoded from.
var snapshotExts = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
	".json": true,
}

// ValidateSnapshotPath checks that path names a file in a supported format.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension is one of .yaml, .yml, .toml, .json (any case)
func ValidateSnapshotPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !snapshotExts[ext] {
		return New(ErrCodeInvalidFormat, "unsupported snapshot format %q (want .yaml, .toml or .json)", ext)
	}

	return nil
}
