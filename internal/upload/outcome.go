package upload

import "strings"

// Messages written to the display.
const (
	NoFileMessage = "Please upload a file."
	RoutePrefix   = "Optimal Route: "
	ErrorPrefix   = "Error: "

	routeSeparator = ", "
)

// Route is the ordered list of stops returned by the server.
type Route []string

// String joins the stops with ", ".
func (r Route) String() string {
	return strings.Join(r, routeSeparator)
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// OutcomeNoFile means the form was submitted without a file.
	OutcomeNoFile OutcomeKind = iota
	// OutcomeRoute means the server answered with a route.
	OutcomeRoute
	// OutcomeError means the request or its response handling failed.
	OutcomeError
)

// Outcome is the settled result of one submission.
type Outcome struct {
	Kind  OutcomeKind
	Route Route
	Err   error
}

// RouteOutcome wraps a route, or err when it is non-nil.
func RouteOutcome(route Route, err error) Outcome {
	if err != nil {
		return Outcome{Kind: OutcomeError, Err: err}
	}

	return Outcome{Kind: OutcomeRoute, Route: route}
}

// Message is the text shown for the outcome.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeRoute:
		return RoutePrefix + o.Route.String()
	case OutcomeError:
		return ErrorPrefix + errorString(o.Err)
	default:
		return NoFileMessage
	}
}

func errorString(err error) string {
	if err == nil {
		return "unknown error"
	}

	return err.Error()
}
