package flushio

import (
	"errors"
	"io"
)

// Tee returns a WriteFlusher that copies every write to each of wfs, in
// order, and flushes all of them. Nil arguments are skipped and nested tees
// are flattened; Tee returns nil if nothing remains.
//
// A failing destination does not stop the others from receiving the write
// or the flush; their errors are joined.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	var t tee
	for _, wf := range wfs {
		switch impl := wf.(type) {
		case nil:
		case tee:
			t = append(t, impl...)
		default:
			t = append(t, impl)
		}
	}
	switch len(t) {
	case 0:
		return nil
	case 1:
		return t[0]
	}
	return t
}

type tee []WriteFlusher

func (t tee) Write(p []byte) (int, error) {
	var errs []error
	for _, wf := range t {
		n, err := wf.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return len(p), nil
}

func (t tee) Flush() error {
	var errs []error
	for _, wf := range t {
		if err := wf.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
