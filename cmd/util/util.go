package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/jconf/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandleFatalError prints the error and exits. Errors with a friendly message
// are printed without the context that was attached while they propagated.
func HandleFatalError(err error) {
	if msg, ok := errors.GetFriendlyMessage(err); ok {
		fmt.Fprintln(stderr, msg)
	} else {
		fmt.Fprintf(stderr, "Error: %s\n", err)
	}
	log.WithError(err).Debug("Exiting due to fatal error")
	exit(1)
}

// HandlePanic reports panics that escaped the command, such as $HOME being
// unset when a config path needs it. It must be deferred directly.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	fmt.Fprintf(stderr, "Fatal: %v\n", r)
	log.Debugf("Stack trace:\n%s", debug.Stack())
	exit(1)
}
