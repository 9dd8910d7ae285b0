package stdoutwriter

import (
	"bytes"
	"os"
)

var severe = [][]byte{[]byte(`"level":"error"`), []byte(`"level":"fatal"`)}

// Logger writes log lines to the standard output, error and fatal lines go to standard error.
type Logger struct{}

func (l Logger) Write(p []byte) (n int, err error) {
	for _, level := range severe {
		if bytes.Contains(p, level) {
			return os.Stderr.Write(p)
		}
	}
	return os.Stdout.Write(p)
}
