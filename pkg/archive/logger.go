package archive

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level structured logger used for warn-and-skip and
// best-effort-restore diagnostics. cmd/car overrides it via SetLogger;
// library code never calls log.Fatal or os.Exit.
var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, letting a collaborator
// (cmd/car, a server-side dispatcher) route diagnostics its own way.
func SetLogger(l zerolog.Logger) {
	log = l
}
