package util

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Log is shared by the packages that report progress or retries. The scanner
// itself never logs.
var Log = log.New(os.Stderr, "cunone: ", log.LstdFlags)

// Quiet discards everything written to Log.
func Quiet() {
	Log.SetOutput(io.Discard)
}

func Assert(condition bool, format string, args ...any) {
	if !condition {
		panic(fmt.Sprintf(format, args...))
	}
}
