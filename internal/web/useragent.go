package web

import "runtime"

// Version is reported in the User-Agent of feed requests.
var Version = "0.1.0"

// UserAgent identifies this client to the feed API.
func UserAgent() string {
	return "feed-mcp/" + Version + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
}
