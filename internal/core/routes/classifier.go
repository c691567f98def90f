// Package routes classifies URL paths into access categories and computes
// per-request gating decisions. Everything here is pure string work: no I/O,
// no session validation, safe on arbitrary untrusted input.
package routes

import (
	"path"
	"strings"

	"github.com/wadesk/console-api/internal/core/domain"
)

// Class buckets a path by the access policy that applies to it.
type Class int

const (
	ClassPublic Class = iota
	ClassProtected
	ClassAdmin
	ClassRole
)

func (c Class) String() string {
	switch c {
	case ClassProtected:
		return "protected"
	case ClassAdmin:
		return "admin"
	case ClassRole:
		return "role"
	default:
		return "public"
	}
}

// Classification is the outcome of classifying one path. RequiredRole is set
// for ClassAdmin and ClassRole only.
type Classification struct {
	Class        Class
	RequiredRole domain.Role
}

// Tables is the static route configuration loaded once at startup and never
// mutated afterwards.
type Tables struct {
	// ProtectedRoot is the prefix under which a session is required.
	ProtectedRoot string
	// AdminPrefixes restrict paths to ADMIN. Only consulted under ProtectedRoot.
	AdminPrefixes []string
	// RolePrefixes restrict paths to a single named role. Only consulted
	// under ProtectedRoot.
	RolePrefixes map[string]domain.Role
	// AuthEntryPaths are the pages an already-authenticated session should
	// be bounced away from (sign-in, sign-up).
	AuthEntryPaths []string
	// SignInPath is the redirect target for unauthenticated protected access.
	SignInPath string
	// LandingPath is where authenticated sessions land after sign-in.
	LandingPath string
	// StaticPrefixes are asset roots that bypass all gating.
	StaticPrefixes []string
}

// DefaultTables returns the console's route tables.
func DefaultTables() Tables {
	return Tables{
		ProtectedRoot: "/app",
		AdminPrefixes: []string{"/app/admin"},
		RolePrefixes: map[string]domain.Role{
			"/app/developer": domain.RoleDeveloper,
		},
		AuthEntryPaths: []string{"/signin", "/signup"},
		SignInPath:     "/signin",
		LandingPath:    "/app",
		StaticPrefixes: []string{"/static/", "/assets/"},
	}
}

// Classifier evaluates paths against an immutable set of Tables.
type Classifier struct {
	tables Tables
}

// NewClassifier builds a Classifier. The Tables value is copied; later
// mutation of the argument does not affect classification.
func NewClassifier(t Tables) *Classifier {
	t.AdminPrefixes = append([]string(nil), t.AdminPrefixes...)
	t.AuthEntryPaths = append([]string(nil), t.AuthEntryPaths...)
	t.StaticPrefixes = append([]string(nil), t.StaticPrefixes...)
	roles := make(map[string]domain.Role, len(t.RolePrefixes))
	for k, v := range t.RolePrefixes {
		roles[k] = v
	}
	t.RolePrefixes = roles
	return &Classifier{tables: t}
}

// Classify maps a path to its access category.
//
// Admin and role prefixes are only honoured for paths already under the
// protected root: a stray match outside it (say, a marketing page named
// /about/admin) must never be treated as role-restricted.
func (c *Classifier) Classify(p string) Classification {
	if !underPrefix(p, c.tables.ProtectedRoot) {
		return Classification{Class: ClassPublic}
	}
	for _, ap := range c.tables.AdminPrefixes {
		if underPrefix(p, ap) {
			return Classification{Class: ClassAdmin, RequiredRole: domain.RoleAdmin}
		}
	}
	for rp, role := range c.tables.RolePrefixes {
		if underPrefix(p, rp) {
			return Classification{Class: ClassRole, RequiredRole: role}
		}
	}
	return Classification{Class: ClassProtected}
}

// IsStaticAsset reports whether a path points at a static asset: it carries a
// file extension or lives under one of the configured asset roots. These
// paths bypass gating entirely.
func (c *Classifier) IsStaticAsset(p string) bool {
	for _, sp := range c.tables.StaticPrefixes {
		if strings.HasPrefix(p, sp) {
			return true
		}
	}
	switch p {
	case "/favicon.ico", "/robots.txt":
		return true
	}
	return path.Ext(p) != ""
}

func (c *Classifier) isAuthEntry(p string) bool {
	for _, ae := range c.tables.AuthEntryPaths {
		if p == ae {
			return true
		}
	}
	return false
}

// underPrefix reports whether p equals prefix or sits beneath it as a path
// segment. The root prefix "/" matches only "/" or the empty path, never
// "/something".
func underPrefix(p, prefix string) bool {
	if prefix == "" {
		return false
	}
	if prefix == "/" {
		return p == "/" || p == ""
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
