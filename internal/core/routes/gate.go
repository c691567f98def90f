package routes

import "net/url"

// RoleHintHeader names the role a downstream handler must verify before
// serving an admin- or role-restricted path. The header is a hint, never a
// grant: the authoritative check happens in the handler.
const RoleHintHeader = "X-Requires-Role"

// Action discriminates gate outcomes.
type Action int

const (
	ActionContinue Action = iota
	ActionRedirect
	ActionContinueWithHeader
)

func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionContinueWithHeader:
		return "continue_with_header"
	default:
		return "continue"
	}
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Action      Action
	Target      string // redirect location, set for ActionRedirect
	HeaderKey   string // set for ActionContinueWithHeader
	HeaderValue string
}

// Gate decides what to do with a request given only its path and whether a
// session cookie is present. It performs no session validation and no I/O;
// deep validation is the downstream handler's job. Malformed input degrades
// to the most restrictive branch rather than failing.
func (c *Classifier) Gate(p string, hasSession bool) Decision {
	if c.IsStaticAsset(p) {
		return Decision{Action: ActionContinue}
	}

	cl := c.Classify(p)

	if !hasSession {
		if cl.Class != ClassPublic {
			return Decision{
				Action: ActionRedirect,
				Target: c.tables.SignInPath + "?callbackUrl=" + url.QueryEscape(p),
			}
		}
		return Decision{Action: ActionContinue}
	}

	if c.isAuthEntry(p) {
		return Decision{Action: ActionRedirect, Target: c.tables.LandingPath}
	}

	if cl.Class == ClassAdmin || cl.Class == ClassRole {
		return Decision{
			Action:      ActionContinueWithHeader,
			HeaderKey:   RoleHintHeader,
			HeaderValue: string(cl.RequiredRole),
		}
	}

	return Decision{Action: ActionContinue}
}
