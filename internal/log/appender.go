package log

import (
	"errors"
	"io"
)

// appenders fans each formatted entry out to the console and any file
// outputs. A failing appender does not stop the others.
type appenders struct {
	writers []io.Writer
	owned   []io.Closer
}

func newAppenders(console io.Writer) *appenders {
	a := &appenders{}
	if console != nil {
		a.writers = append(a.writers, console)
	}
	return a
}

func (a *appenders) Write(p []byte) (int, error) {
	var errs []error
	for _, w := range a.writers {
		if _, err := w.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return len(p), errors.Join(errs...)
}

// own adds w and closes it with the appender set. The console is never owned.
func (a *appenders) own(w io.WriteCloser) {
	a.writers = append(a.writers, w)
	a.owned = append(a.owned, w)
}

// Close releases file outputs; the console stays open.
func (a *appenders) Close() error {
	var errs []error
	for _, c := range a.owned {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.owned = nil
	return errors.Join(errs...)
}
