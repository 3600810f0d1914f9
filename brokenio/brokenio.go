// brokenio is a wrapper around an io.Reader that breaks on purpose.
// Typical use: You have a file pointer, a reader from a compressed
// source or something else. You write
// reader = brokenio.NewReader(reader) to wrap the old reader. Everything
// then functions as before, but after a set number of bytes, reads fail.
// If you ask for a zero length file, the first read returns EOF with no
// data. This is what one often sees on an empty download.
//
// Unlike a random failure, this is repeatable, so tests can say which
// line an error should be reported on.

package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is what Read returns when it decides to fail, unless
// SetErr gave it something else.
var ErrBroken = errors.New("brokenio: artificial read failure")

// A BrknRdrClsr is modelled on the various Readers in the standard
// library, but with settings saying when it will fail.
type BrknRdrClsr struct {
	rdrOrig   io.Reader // Wrapped reader
	zeroFile  bool      // first read gives EOF and nothing else
	failAfter int       // fail once this many bytes have gone through. -1 is never
	err       error     // returned on failure
	nCalled   int
	nByte     int
}

// NewReader returns a new Reader - a wrapper around the old one. It does
// not fail until you tell it to.
func NewReader(rIn io.Reader) *BrknRdrClsr {
	return &BrknRdrClsr{rdrOrig: rIn, failAfter: -1, err: ErrBroken}
}

// SetFailAfter says how many bytes get through before reads fail.
// Zero means the first read fails. A negative value turns failure off.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetZeroFile makes the first read return io.EOF with no data.
func (r *BrknRdrClsr) SetZeroFile(zero bool) { r.zeroFile = zero }

// SetErr changes the error returned on failure.
func (r *BrknRdrClsr) SetErr(err error) { r.err = err }

// Read passes data through until failAfter bytes have been read. The
// read that crosses the limit returns the bytes up to the limit and the
// error. Every read after that returns only the error.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.zeroFile {
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, r.err
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += n
	if err == nil && r.failAfter >= 0 && r.nByte >= r.failAfter {
		err = r.err
	}
	return n, err
}

// Close closes the wrapped reader if it can be closed.
func (r *BrknRdrClsr) Close() error {
	if c, ok := r.rdrOrig.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// String gives the numbers, which is handy when a test fails.
func (r *BrknRdrClsr) String() string {
	return fmt.Sprintf("%d calls and %d bytes", r.nCalled, r.nByte)
}
