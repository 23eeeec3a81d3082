// Command folio converts site images to WebP, reports the savings, and
// serves or watches the site during development.
package main

import (
	"os"

	"github.com/backmassage/folio/internal/cli"
)

// version, commit and date are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}))
}
