package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"ganak-service/src/config"

	"github.com/go-chi/cors"
)

const wildcard = "*"

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"}
)

// CORSPolicy is the cross-origin configuration actually installed on the router.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

func NewCORSPolicy(c config.CORSConfig) CORSPolicy {
	return CORSPolicy{
		AllowedOrigins:   append([]string(nil), c.AllowedOrigins...),
		AllowedMethods:   append([]string(nil), c.AllowedMethods...),
		AllowedHeaders:   append([]string(nil), c.AllowedHeaders...),
		AllowCredentials: c.AllowCredentials,
	}
}

func (p CORSPolicy) AllowsAnyOrigin() bool {
	return contains(p.AllowedOrigins, wildcard)
}

// Normalize returns a policy that browsers can enforce safely, plus one warning
// per adjustment. A wildcard origin never travels with credentials: credentials
// are dropped rather than the origin being guessed.
func (p CORSPolicy) Normalize() (CORSPolicy, []string) {
	var warnings []string
	out := p

	if p.AllowsAnyOrigin() {
		if explicit := without(p.AllowedOrigins, wildcard); len(explicit) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"explicit origins [%s] have no effect because the wildcard origin is allowed", strings.Join(explicit, ", ")))
		}
		out.AllowedOrigins = []string{wildcard}

		if p.AllowCredentials {
			warnings = append(warnings,
				"wildcard origin cannot be combined with credentials; credentials disabled")
			out.AllowCredentials = false
		}
	}

	if len(p.AllowedOrigins) == 0 {
		warnings = append(warnings, "no allowed origins configured; cross-origin requests will be rejected")
	}

	// go-chi/cors matches methods literally
	if len(p.AllowedMethods) == 0 || contains(p.AllowedMethods, wildcard) {
		out.AllowedMethods = append([]string(nil), defaultCORSMethods...)
	}
	if len(p.AllowedHeaders) == 0 {
		out.AllowedHeaders = append([]string(nil), defaultCORSHeaders...)
	} else if contains(p.AllowedHeaders, wildcard) {
		out.AllowedHeaders = []string{wildcard}
	}

	return out, warnings
}

// Handler builds the go-chi/cors middleware. The policy must be normalized.
func (p CORSPolicy) Handler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   p.AllowedOrigins,
		AllowedMethods:   p.AllowedMethods,
		AllowedHeaders:   p.AllowedHeaders,
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: p.AllowCredentials,
		MaxAge:           300,
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	var out []string
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
