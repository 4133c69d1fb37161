package version

import "fmt"

// Overridden at build time with -ldflags "-X ...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Name is the program name reported by the API and logs.
const Name = "pikabattle"

// String renders the build metadata on one line.
func String() string {
	s := fmt.Sprintf("%s %s (%s)", Name, Version, Commit)
	if Date != "" {
		s += " built " + Date
	}
	if Dirty == "true" {
		s += " dirty"
	}
	return s
}
