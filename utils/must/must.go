package must

import (
	"os"

	"github.com/Strum355/log"
)

// Do runs fn and exits if it errors. Used for startup steps that the
// process cannot run without.
func Do(fn func() error) {
	if err := fn(); err != nil {
		log.WithError(err).Error("startup failure")
		os.Exit(1)
	}
}
