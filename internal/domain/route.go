package domain

// Route identifies one of the dashboard screens.
type Route string

const (
	RouteHome            Route = "/"
	RouteVideoMap        Route = "/video-map"
	RouteDataUpload      Route = "/data-upload"
	RouteDistressSummary Route = "/distress-summary"
	RouteInspectorNotes  Route = "/inspector-notes"
	RouteNotFound        Route = ""
)

// NavEntry is a navigation link rendered on every screen.
type NavEntry struct {
	Route Route
	Label string
}

// Navigation lists the screens in menu order.
var Navigation = []NavEntry{
	{Route: RouteHome, Label: "Overview"},
	{Route: RouteVideoMap, Label: "Video & Map"},
	{Route: RouteDataUpload, Label: "Data Upload"},
	{Route: RouteDistressSummary, Label: "Distress Summary"},
	{Route: RouteInspectorNotes, Label: "Inspector Notes"},
}

// Navigate resolves a request path to a screen. Any path that is not a known
// screen resolves to RouteNotFound.
func Navigate(path string) Route {
	for _, e := range Navigation {
		if string(e.Route) == path {
			return e.Route
		}
	}
	return RouteNotFound
}
