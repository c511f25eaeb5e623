// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keypath implements the provenance-log key-path grammar: UTF-8
// strings beginning with "/", segmented on "/", with branch paths (trailing
// "/") and leaf paths (no trailing "/") as distinct shapes.
package keypath

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator is the key-path segment separator.
const Separator = '/'

// Path is a normalised, validated key-path. The zero value is not a valid
// Path; construct one with Parse.
type Path string

// Parse validates s against the key-path grammar and returns it as a Path.
// A valid key-path is UTF-8, printable, begins with '/', and never contains
// a doubled separator ("//").
func Parse(s string) (Path, error) {
	if !utf8.ValidString(s) {
		return "", errInvalid(s, "not valid UTF-8")
	}
	if len(s) == 0 || s[0] != Separator {
		return "", errInvalid(s, "must begin with '/'")
	}
	for _, r := range s {
		if r == utf8.RuneError {
			return "", errInvalid(s, "contains invalid rune")
		}
		if !unicode.IsPrint(r) {
			return "", errInvalid(s, "contains non-printable character")
		}
	}
	if strings.Contains(s, "//") {
		return "", errInvalid(s, "contains doubled separator")
	}
	return Path(s), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static construction of well-known paths.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Root is the root branch path "/".
const Root Path = "/"

// IsBranch reports whether p ends in the separator (including the root).
func (p Path) IsBranch() bool {
	s := string(p)
	return len(s) > 0 && s[len(s)-1] == Separator
}

// IsLeaf reports whether p does not end in the separator.
func (p Path) IsLeaf() bool {
	return !p.IsBranch()
}

// Depth returns the number of non-empty '/'-separated segments. The root
// branch has depth 0.
func (p Path) Depth() int {
	return len(p.segments())
}

func (p Path) segments() []string {
	parts := strings.Split(string(p), string(Separator))
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// InBranch reports whether p lies within branch b: b is a proper or equal
// prefix of p at a separator boundary.
func (p Path) InBranch(b Path) bool {
	if !b.IsBranch() {
		return false
	}
	ps, bs := string(p), string(b)
	if ps == bs {
		return true
	}
	return strings.HasPrefix(ps, bs)
}

// Join concatenates a branch path with a path-relative suffix (no leading
// separator expected on rel; one is tolerated and stripped).
func (b Path) Join(rel string) Path {
	rel = strings.TrimPrefix(rel, string(Separator))
	s := string(b)
	if !strings.HasSuffix(s, string(Separator)) {
		s += string(Separator)
	}
	return Path(s + rel)
}

// AsBranch returns p if it is already a branch, or p with a trailing
// separator appended.
func (p Path) AsBranch() Path {
	if p.IsBranch() {
		return p
	}
	return Path(string(p) + string(Separator))
}

// Parent returns p with its last segment dropped, always returned as a
// branch path (the trailing '/' is kept).
func (p Path) Parent() Path {
	segs := p.segments()
	if len(segs) <= 1 {
		return Root
	}
	return Path(string(Separator) + strings.Join(segs[:len(segs)-1], string(Separator)) + string(Separator))
}

// LongestCommonBranch computes the longest common branch prefix across
// paths, per the provenance-log context rule: tokenise each path into
// segments, take the longest common prefix of segments, and emit it as a
// branch path. The empty input and singleton cases are defined explicitly:
// a singleton branch path returns itself; a singleton leaf path returns its
// parent branch.
func LongestCommonBranch(paths []Path) Path {
	if len(paths) == 0 {
		return Root
	}
	if len(paths) == 1 {
		p := paths[0]
		if p.IsBranch() {
			return p
		}
		return p.Parent()
	}

	common := paths[0].segments()
	for _, p := range paths[1:] {
		segs := p.segments()
		common = commonPrefix(common, segs)
		if len(common) == 0 {
			break
		}
	}
	if len(common) == 0 {
		return Root
	}
	return Path(string(Separator) + strings.Join(common, string(Separator)) + string(Separator))
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func errInvalid(s, reason string) error {
	return &InvalidPathError{Input: s, Reason: reason}
}

// InvalidPathError reports why a candidate key-path failed grammar
// validation.
type InvalidPathError struct {
	Input  string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return "keypath: invalid key-path " + quote(e.Input) + ": " + e.Reason
}

func quote(s string) string {
	return "\"" + s + "\""
}
