package gateway

// Action is the outcome of the redirect policy
type Action int

const (
	PassThrough Action = iota
	RedirectToLogin
	RedirectToDashboard
)

func (a Action) String() string {
	switch a {
	case RedirectToLogin:
		return "RedirectToLogin"
	case RedirectToDashboard:
		return "RedirectToDashboard"
	default:
		return "PassThrough"
	}
}

// Decide applies the redirect policy. Roles are not consulted here; only
// whether any valid identity exists.
//
//	Asset / ApiRoute   any     PassThrough
//	PublicPath         yes     RedirectToDashboard
//	PublicPath         no      PassThrough
//	ProtectedPath      yes     PassThrough
//	ProtectedPath      no      RedirectToLogin
func Decide(c Classification, authenticated bool) Action {
	switch c {
	case Asset, ApiRoute:
		return PassThrough
	case PublicPath:
		if authenticated {
			return RedirectToDashboard
		}
		return PassThrough
	default:
		if authenticated {
			return PassThrough
		}
		return RedirectToLogin
	}
}
