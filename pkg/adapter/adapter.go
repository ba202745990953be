// Package adapter fits the shared HTTP handler to its deployment targets:
// a path prefix added by the hosting proxy, the CORS allow-list from the
// environment, and API Gateway events on Lambda.
package adapter

import (
	"net/http"
	"strings"
)

// DefaultPrefix is the mount point used by the web frontend's proxy.
const DefaultPrefix = "/api"

// DefaultOrigins are the local development frontends.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Settings are the adapter values read from the environment.
type Settings struct {
	Prefix  string
	Origins []string
}

// FromEnv reads ROUTE_PREFIX and CORS_ORIGINS. An unset prefix means
// DefaultPrefix; set it to "/" to disable stripping.
func FromEnv(getenv func(string) string) Settings {
	prefix, ok := lookup(getenv, "ROUTE_PREFIX")
	if !ok {
		prefix = DefaultPrefix
	}
	return Settings{
		Prefix:  strings.TrimRight(prefix, "/"),
		Origins: ResolveOrigins(getenv("CORS_ORIGINS")),
	}
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	return v, v != ""
}

// ResolveOrigins splits a comma-separated origin list, trimming entries and
// dropping empties. A blank list yields DefaultOrigins.
func ResolveOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), DefaultOrigins...)
	}
	return origins
}

// StripPrefix removes prefix from request paths before calling h: prefix
// itself becomes "/" and prefix+"/x" becomes "/x". Other paths pass
// through unchanged, so the handler also answers unprefixed requests.
func StripPrefix(prefix string, h http.Handler) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return h
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ok := stripPath(prefix, r.URL.Path)
		if !ok {
			h.ServeHTTP(w, r)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = path
		if r.URL.RawPath != "" {
			if raw, ok := stripPath(prefix, r.URL.RawPath); ok {
				r2.URL.RawPath = raw
			} else {
				r2.URL.RawPath = ""
			}
		}
		h.ServeHTTP(w, r2)
	})
}

func stripPath(prefix, path string) (string, bool) {
	switch {
	case path == prefix:
		return "/", true
	case strings.HasPrefix(path, prefix+"/"):
		return path[len(prefix):], true
	default:
		return path, false
	}
}
