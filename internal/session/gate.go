package session

// Flow names a top-level navigation tree.
type Flow string

const (
	// FlowAuth covers both signed-out users and signed-in users who have
	// not finished onboarding.
	FlowAuth Flow = "auth"
	// FlowApp is the main application, reachable only after onboarding.
	FlowApp Flow = "app"
)

// Route is the navigation gate. It is a pure function of the two flags:
// FlowApp iff the user is authenticated and has completed onboarding.
func Route(authenticated, onboardingComplete bool) Flow {
	if authenticated && onboardingComplete {
		return FlowApp
	}
	return FlowAuth
}
