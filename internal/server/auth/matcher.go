package auth

import (
	"path"
	"strings"
)

// PathMatcher is the allow-list consulted before authentication.
//
// Patterns are exact paths ("/login"), prefix wildcards ("/internal/**",
// matching "/internal" and everything below it) or single-segment globs
// understood by path.Match ("/files/*").
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
	globs    []string
}

func NewPathMatcher(patterns []string) *PathMatcher {
	m := &PathMatcher{exact: make(map[string]struct{})}
	for _, p := range patterns {
		switch {
		case strings.HasSuffix(p, "/**"):
			m.prefixes = append(m.prefixes, strings.TrimSuffix(p, "/**"))
		case strings.ContainsAny(p, "*?["):
			m.globs = append(m.globs, p)
		default:
			m.exact[p] = struct{}{}
		}
	}
	return m
}

// Match reports whether urlPath is public.
func (m *PathMatcher) Match(urlPath string) bool {
	if _, ok := m.exact[urlPath]; ok {
		return true
	}
	for _, prefix := range m.prefixes {
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	for _, g := range m.globs {
		if ok, _ := path.Match(g, urlPath); ok {
			return true
		}
	}
	return false
}
