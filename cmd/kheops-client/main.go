// kheops-client - CLI for a Kheops DICOMweb repository
package main

import (
	"os"

	"github.com/hirsch-lab/kheops-client/internal/cli"
)

// Version information, injected via LDFLAGS on release builds.
var (
	Version   = "v1.0.0"
	BuildTime = "unknown"
)

func main() {
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
