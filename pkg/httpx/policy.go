package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// Messages written when the policy rejects a request.
const (
	MsgUnauthorized = "Authorize first."
	MsgForbidden    = "You don't have authorities."
)

type accessKind int

const (
	accessPublic accessKind = iota
	accessAuthenticated
	accessRoles
)

// Access is what a rule demands of the caller.
type Access struct {
	kind  accessKind
	roles []string
}

// Public lets anyone through, token or not.
func Public() Access { return Access{kind: accessPublic} }

// Authenticated requires any valid access token.
func Authenticated() Access { return Access{kind: accessAuthenticated} }

// AnyRole requires a valid access token whose role is one of roles.
func AnyRole(roles ...string) Access { return Access{kind: accessRoles, roles: roles} }

// Allows reports whether a caller passes. p is nil for anonymous callers.
func (a Access) Allows(p *Principal) bool {
	switch a.kind {
	case accessPublic:
		return true
	case accessAuthenticated:
		return p != nil
	default:
		return p != nil && slices.Contains(a.roles, p.Role)
	}
}

// IsPublic reports whether the rule needs no token.
func (a Access) IsPublic() bool { return a.kind == accessPublic }

// Rule matches a method (empty for any) and a set of path patterns.
//
// Patterns use Ant syntax by path segment: "{name}" and "*" match exactly
// one segment, "**" matches any number of segments including none.
// Trailing slashes are ignored on both sides.
type Rule struct {
	Method   string
	Patterns []string
	Access   Access
}

type compiledRule struct {
	method   string
	patterns [][]string
	access   Access
}

// Policy is an ordered rule table; the first matching rule decides.
type Policy struct {
	rules    []compiledRule
	fallback Access
}

// NewPolicy compiles rules. fallback applies when nothing matches.
func NewPolicy(fallback Access, rules ...Rule) *Policy {
	p := &Policy{fallback: fallback, rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{method: strings.ToUpper(r.Method), access: r.Access}
		for _, pat := range r.Patterns {
			cr.patterns = append(cr.patterns, splitPath(pat))
		}
		p.rules = append(p.rules, cr)
	}
	return p
}

// Decide returns the access required for method and path.
func (p *Policy) Decide(method, path string) Access {
	segs := splitPath(path)
	for _, r := range p.rules {
		if r.method != "" && r.method != method {
			continue
		}
		for _, pat := range r.patterns {
			if matchSegments(pat, segs) {
				return r.access
			}
		}
	}
	return p.fallback
}

// Middleware enforces the policy. It must run after AuthnMiddleware.
// Anonymous callers on protected paths get 401, authenticated callers
// without a permitted role get 403.
func (p *Policy) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := p.Decide(r.Method, r.URL.Path)

			var caller *Principal
			if pr, ok := PrincipalFromContext(r.Context()); ok {
				caller = &pr
			}

			switch {
			case access.Allows(caller):
				next.ServeHTTP(w, r)
			case caller == nil:
				w.Header().Set("WWW-Authenticate", `Bearer realm="greencity"`)
				WriteError(w, r, http.StatusUnauthorized, MsgUnauthorized)
			default:
				WriteError(w, r, http.StatusForbidden, MsgForbidden)
			}
		})
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		head := pat[0]
		if head == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 || !matchSegment(head, segs[0]) {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

func matchSegment(pat, seg string) bool {
	if pat == "*" {
		return true
	}
	if strings.HasPrefix(pat, "{") && strings.HasSuffix(pat, "}") {
		return seg != ""
	}
	return pat == seg
}
