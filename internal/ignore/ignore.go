// Package ignore implements the ignore-rule collaborator referenced in
// spec §6: a predicate classifying a path as excluded from tree
// construction and working-directory materialization. Real ignore-file
// parsing (".ugitignore" globs) is an out-of-scope front-end concern;
// the core only needs the predicate's shape.
package ignore

import "strings"

// Predicate classifies a path as ignored or not.
type Predicate func(path string) bool

// Default treats any path with ".ugit" or ".git" as a path component as
// ignored, matching spec §6.
func Default(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if part == ".ugit" || part == ".git" {
			return true
		}
	}
	return false
}
