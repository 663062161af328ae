// Package guard decides which console views the current session may open.
package guard

import (
	"net/http"
	"strings"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/metrics"
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type Access int

const (
	// Public views are open to everyone.
	Public Access = iota
	// PublicOnly views make sense only without a session (the login form).
	PublicOnly
	Authenticated
)

type Route struct {
	Path       string
	Access     Access
	Capability auth.Capability
	Label      string
}

type Decision struct {
	Allowed    bool
	RedirectTo string
}

// SessionReader is the slice of the session store the guard depends on.
type SessionReader interface {
	Current() (auth.Principal, bool)
}

type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type Guard struct {
	sessions SessionReader
	resolver *auth.Resolver
	routes   []Route
	metrics  *metrics.Collector
}

func DefaultRoutes() []Route {
	return []Route{
		{Path: LoginPath, Access: PublicOnly},
		{Path: "/healthz", Access: Public},
		{Path: LandingPath, Access: Authenticated, Capability: auth.CapViewDashboard, Label: "Dashboard"},
		{Path: "/employees", Access: Authenticated, Capability: auth.CapManageEmployees, Label: "Employees"},
		{Path: "/departments", Access: Authenticated, Capability: auth.CapManageDepartments, Label: "Departments"},
		{Path: "/leave", Access: Authenticated, Label: "Leave"},
		{Path: "/payroll", Access: Authenticated, Label: "Payroll"},
		{Path: "/attendance", Access: Authenticated, Capability: auth.CapViewAttendance, Label: "Attendance"},
		{Path: "/performance", Access: Authenticated, Capability: auth.CapViewPerformance, Label: "Performance"},
		{Path: "/onboarding", Access: Authenticated, Capability: auth.CapManageOnboarding, Label: "Onboarding"},
		{Path: "/settings", Access: Authenticated, Capability: auth.CapManageSettings, Label: "Settings"},
		{Path: "/profile", Access: Authenticated},
		{Path: "/session", Access: Authenticated},
		{Path: "/role", Access: Authenticated},
		{Path: "/logout", Access: Public},
	}
}

// New builds a guard over routes. A nil routes slice means DefaultRoutes.
func New(sessions SessionReader, resolver *auth.Resolver, routes []Route, m *metrics.Collector) *Guard {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Guard{sessions: sessions, resolver: resolver, routes: routes, metrics: m}
}

// Check evaluates path against the session as it is right now. Paths that
// match no route are treated as authenticated-only.
func (g *Guard) Check(path string) Decision {
	route, ok := g.match(path)
	if !ok {
		route = Route{Path: path, Access: Authenticated}
	}

	principal, authenticated := g.sessions.Current()
	switch route.Access {
	case Public:
		return Decision{Allowed: true}
	case PublicOnly:
		if authenticated {
			return Decision{RedirectTo: LandingPath}
		}
		return Decision{Allowed: true}
	}

	if !authenticated {
		return Decision{RedirectTo: LoginPath}
	}
	if route.Capability != "" && !g.resolver.Has(principal.Role, route.Capability) {
		if route.Path == LandingPath {
			// Never bounce back to the page that just refused.
			return Decision{Allowed: true}
		}
		return Decision{RedirectTo: LandingPath}
	}
	return Decision{Allowed: true}
}

// match picks the longest route whose path is a segment prefix of path.
func (g *Guard) match(path string) (Route, bool) {
	path = clean(path)
	var best Route
	found := false
	for _, r := range g.routes {
		p := clean(r.Path)
		if path != p && !(p == "/" || strings.HasPrefix(path, p+"/")) {
			continue
		}
		if !found || len(p) > len(best.Path) {
			best, found = r, true
			best.Path = p
		}
	}
	return best, found
}

func clean(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Navigation lists the labeled routes the current principal may open.
func (g *Guard) Navigation() []NavItem {
	principal, ok := g.sessions.Current()
	if !ok {
		return nil
	}
	var items []NavItem
	for _, r := range g.routes {
		if r.Label == "" || r.Access != Authenticated {
			continue
		}
		if r.Capability != "" && !g.resolver.Has(principal.Role, r.Capability) {
			continue
		}
		items = append(items, NavItem{Path: r.Path, Label: r.Label})
	}
	return items
}

// Middleware answers refused requests with 303 See Other to the decision's
// target.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Check(r.URL.Path)
		if !d.Allowed {
			g.metrics.RecordRedirect(d.RedirectTo)
			http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
