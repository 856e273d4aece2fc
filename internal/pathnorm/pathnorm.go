// Package pathnorm maps runtime source paths onto the relative keys used by
// the declaration map.
//
// Runtime frames report absolute paths for regular builds and
// module-qualified paths for -trimpath builds; generated or copied sources
// may live under a different directory than the file that was indexed. A
// Normalizer undoes all three so the result can be looked up directly.
package pathnorm

import (
	"path"
	"path/filepath"
	"strings"
)

// Rewrite maps a build-output location back to its source location. Empty
// extension fields leave the extension untouched.
type Rewrite struct {
	FromDir string `toml:"from_dir"`
	ToDir   string `toml:"to_dir"`
	FromExt string `toml:"from_ext"`
	ToExt   string `toml:"to_ext"`
}

// Normalizer converts raw frame paths to map keys. The zero value only
// cleans and slash-converts paths.
type Normalizer struct {
	// Root is the directory the declaration map was built from.
	Root string
	// ModulePrefix is stripped from -trimpath style paths, for example
	// "example.com/app".
	ModulePrefix string
	Rewrites     []Rewrite
}

// Normalize returns the relative, slash-separated key for raw. It never
// touches the filesystem, and normalizing its own output is a no-op.
func (n Normalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	p := filepath.ToSlash(raw)
	if strings.HasPrefix(p, "/") || filepath.IsAbs(raw) {
		p = path.Clean(p)
	}

	if root := n.root(); root != "" {
		if rest, ok := strings.CutPrefix(p, root+"/"); ok {
			p = rest
		}
	}
	if prefix := strings.Trim(filepath.ToSlash(n.ModulePrefix), "/"); prefix != "" {
		if rest, ok := strings.CutPrefix(p, prefix+"/"); ok {
			p = rest
		}
	}

	for _, rw := range n.Rewrites {
		if rewritten, ok := rw.apply(p); ok {
			return rewritten
		}
	}
	return p
}

func (n Normalizer) root() string {
	root := strings.TrimSpace(n.Root)
	if root == "" {
		return ""
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return strings.TrimSuffix(filepath.ToSlash(filepath.Clean(root)), "/")
}

func (rw Rewrite) apply(p string) (string, bool) {
	from := strings.Trim(filepath.ToSlash(rw.FromDir), "/")
	to := strings.Trim(filepath.ToSlash(rw.ToDir), "/")
	if from == "" && rw.FromExt == "" {
		return "", false
	}

	rest := p
	if from != "" {
		var ok bool
		if rest, ok = strings.CutPrefix(p, from+"/"); !ok {
			return "", false
		}
	}
	if rw.FromExt != "" {
		if !strings.HasSuffix(rest, rw.FromExt) {
			return "", false
		}
		rest = strings.TrimSuffix(rest, rw.FromExt) + rw.ToExt
	}
	if from != "" && to != "" {
		return to + "/" + rest, true
	}
	return rest, true
}
