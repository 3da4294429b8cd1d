package endpoint

import (
	"net/url"
	"strings"
)

// Template produces the URL path of an endpoint. It is either a
// [StaticPath] or a [ParamPath]; no other implementations exist.
type Template interface {
	// build returns the path given the optional path parameter.
	build(param string) string
}

// StaticPath is a literal URL path. The path parameter, if any, is ignored.
type StaticPath string

func (p StaticPath) build(string) string {
	return string(p)
}

// ParamPath computes the URL path from the single optional path
// parameter (e.g., an entity id).
type ParamPath func(param string) string

func (fx ParamPath) build(param string) string {
	return fx(param)
}

// Segment returns a [ParamPath] producing prefix/<param>suffix, with
// the param path-escaped. With an empty param it produces prefix+suffix.
//
// For example, Segment("/api/technicians", "/photo") maps "42" to
// "/api/technicians/42/photo".
func Segment(prefix, suffix string) ParamPath {
	prefix = strings.TrimSuffix(prefix, "/")
	return func(param string) string {
		if param == "" {
			return prefix + suffix
		}
		return prefix + "/" + url.PathEscape(param) + suffix
	}
}
