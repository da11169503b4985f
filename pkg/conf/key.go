package conf

import (
	"errors"
	"regexp"
)

// ErrInvalidKey is returned by [ParseKey] for keys outside of the sites tree
// or with an unknown property.
var ErrInvalidKey = errors.New("invalid key")

// Key is a parsed configuration key. Site is always set; Program and
// Function are empty for site and program level properties.
type Key struct {
	Raw       string
	Site      string
	Program   string
	Function  string
	Property  string
	Signature string // only for instances/<sig>/<prop>
}

// IsSite reports whether the key addresses a site property.
func (k Key) IsSite() bool { return k.Program == "" }

// IsFunction reports whether the key addresses a function property.
func (k Key) IsFunction() bool { return k.Function != "" }

var keyRe = regexp.MustCompile(
	`^sites/(?P<site>[^/]+)/` +
		`(?:` +
		`workers/(?P<program>.+)/(?P<function>[^/]+)/` +
		`(?P<fprop>worker|stats/runtime|archives/(?:times|num_files|current_size|alloc_size)|` +
		`instances/(?P<sig>[^/]+)/(?P<iprop>[^/]+))` +
		`|` +
		`(?P<sprop>is_master)` +
		`)$`)

// ParseKey splits a key such as "sites/s1/workers/demo/prog/f1/worker".
// Program names may contain slashes; the function is the last path
// component before the property.
func ParseKey(s string) (Key, error) {
	m := keyRe.FindStringSubmatch(s)
	if m == nil {
		return Key{}, ErrInvalidKey
	}
	get := func(name string) string { return m[keyRe.SubexpIndex(name)] }

	k := Key{
		Raw:      s,
		Site:     get("site"),
		Program:  get("program"),
		Function: get("function"),
	}
	switch {
	case get("iprop") != "":
		k.Signature = get("sig")
		k.Property = get("iprop")
	case get("fprop") != "":
		k.Property = get("fprop")
	default:
		k.Property = get("sprop")
	}
	return k, nil
}
