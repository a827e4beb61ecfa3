// Package origin implements the exact-match origin allow-list and the CORS
// headers shared by the relay handlers.
package origin

import (
	"net/http"
	"slices"
	"strings"
)

// AllowList is an immutable set of exact origin strings.
type AllowList struct {
	origins []string
}

// NewAllowList copies origins into a new allow-list. Blank entries are dropped.
func NewAllowList(origins ...string) AllowList {
	list := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			list = append(list, o)
		}
	}
	return AllowList{origins: list}
}

// Allows reports whether origin matches an entry exactly.
func (a AllowList) Allows(origin string) bool {
	if origin == "" {
		return false
	}
	return slices.Contains(a.origins, origin)
}

// Origins returns a copy of the configured origins.
func (a AllowList) Origins() []string {
	return slices.Clone(a.origins)
}

// SetCORS writes the CORS response headers for an allowed origin.
func SetCORS(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// FromRequest returns the caller's Origin header.
func FromRequest(r *http.Request) string {
	return r.Header.Get("Origin")
}
