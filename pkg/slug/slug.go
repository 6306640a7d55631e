// Package slug implements the path codec for the taxonomy tree: slug
// generation and dot-separated materialized path construction. The store and
// the seed generator must agree on these semantics exactly, otherwise
// re-seeding stops being idempotent.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	label    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Slugify lower-cases the input, collapses every maximal run of characters
// outside [a-z0-9] into a single underscore, and trims leading and trailing
// underscores. It is total over any input; the empty string yields an empty
// slug, so callers must reject empty names upstream.
func Slugify(text string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(text), "_"), "_")
}

// ChildPath computes the materialized path of a node named name under the
// given parent path. Root nodes (empty parent path) carry no dot prefix.
func ChildPath(parentPath, name string) string {
	s := Slugify(name)
	if parentPath == "" {
		return s
	}
	return parentPath + "." + s
}

// ValidLabel reports whether a single path label satisfies the stored-path
// character restriction [a-zA-Z0-9_]+.
func ValidLabel(s string) bool {
	return label.MatchString(s)
}

// ValidPath reports whether every dot-separated label of path is valid.
// The empty path is not valid.
func ValidPath(path string) bool {
	if path == "" {
		return false
	}
	for _, l := range strings.Split(path, ".") {
		if !ValidLabel(l) {
			return false
		}
	}
	return true
}

// Labels splits a path into its dot-separated labels. Returns nil for the
// empty path.
func Labels(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// AncestorPaths returns every strict dot-prefix of path, shortest first.
// A root path has no ancestors.
func AncestorPaths(path string) []string {
	labels := Labels(path)
	if len(labels) < 2 {
		return nil
	}
	ancestors := make([]string, 0, len(labels)-1)
	for i := 1; i < len(labels); i++ {
		ancestors = append(ancestors, strings.Join(labels[:i], "."))
	}
	return ancestors
}

// IsDescendant reports whether path sits strictly below root, respecting
// label boundaries: "sec" is not an ancestor of "security".
func IsDescendant(root, path string) bool {
	return root != "" && strings.HasPrefix(path, root+".")
}
