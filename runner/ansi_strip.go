package runner

import (
	"bytes"
	"io"

	"github.com/acarl005/stripansi"
)

// ansiStripWriter removes ANSI escape sequences from a stream before handing
// it to the underlying writer. Output is buffered per line so sequences
// split across writes are still caught.
type ansiStripWriter struct {
	w   io.Writer
	buf bytes.Buffer
}

func newANSIStripWriter(w io.Writer) *ansiStripWriter {
	return &ansiStripWriter{w: w}
}

func (a *ansiStripWriter) Write(p []byte) (int, error) {
	a.buf.Write(p)
	for {
		i := bytes.IndexByte(a.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(a.buf.Next(i + 1))
		if _, err := io.WriteString(a.w, stripansi.Strip(line)); err != nil {
			return len(p), err
		}
	}
}

// Flush writes any buffered partial line.
func (a *ansiStripWriter) Flush() error {
	if a.buf.Len() == 0 {
		return nil
	}
	line := a.buf.String()
	a.buf.Reset()
	_, err := io.WriteString(a.w, stripansi.Strip(line))
	return err
}
