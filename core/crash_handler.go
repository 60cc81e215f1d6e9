package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu    sync.Mutex
	crashReset func()

	// Replaced in tests
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// Escape sequences restoring a sane terminal: cursor on, main screen, attributes off
var emergencyReset = []byte("\x1b[?1000l\x1b[?1002l\x1b[?1006l\x1b[?25h\x1b[?1049l\x1b[0m")

// RegisterCrashReset installs the terminal cleanup run before the crash report
// Typically the tcell screen's Fini; nil restores the escape-sequence fallback
func RegisterCrashReset(fn func()) {
	crashMu.Lock()
	crashReset = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	reset := crashReset
	crashMu.Unlock()

	// Restore terminal to sane state immediately
	if reset != nil {
		reset()
	} else {
		os.Stdout.Write(emergencyReset)
		os.Stdout.Sync()
	}

	fmt.Fprintf(crashOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", debug.Stack())

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
