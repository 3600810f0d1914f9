// An error implementation that saves the line number, the column and
// the start of the line we were trying to read.
// Every error leaving this package is a *ParseError. Its Kind says
// whether the input could not be read, the atom_site headers were
// unusable or a row could not be decoded.
package mmcif

import (
	"errors"
	"strconv"
)

const maxMsgLen = 70

// Kind classifies a ParseError.
type Kind uint8

const (
	KindIO     Kind = iota + 1 // could not open or read the input
	KindSchema                 // a required atom_site column is missing
	KindDecode                 // a row has the wrong shape or a bad value
)

// Sentinels for errors.Is. A *ParseError matches the one for its Kind.
var (
	ErrIO     = errors.New("mmcif: i/o error")
	ErrSchema = errors.New("mmcif: atom_site schema error")
	ErrDecode = errors.New("mmcif: atom_site decode error")
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindSchema:
		return "schema"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindSchema:
		return ErrSchema
	}
	return ErrDecode
}

// ParseError is what Parse, Count and Positions return when they fail.
// There are no partial results, so when you get one of these, you get
// no atoms.
type ParseError struct {
	Kind   Kind
	Line   int    // 1-based line number, 0 if the error is not about a line
	Column string // atom_site column that could not be decoded
	Inline string // the line that provoked the error
	Desc   string // description of error
	Err    error  // underlying error, may be nil
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Error puts together everything we know. This should include the number
// of the last line read and any description of the error we have.
func (e *ParseError) Error() string {
	errmsg := "mmcif: " + e.Kind.String() + " error"
	if e.Line != 0 {
		errmsg += " line " + strconv.Itoa(e.Line)
	}
	if e.Column != "" {
		errmsg += " column " + e.Column
	}
	if e.Desc != "" {
		errmsg += ": " + e.Desc
	}
	if e.Err != nil {
		errmsg += ": " + e.Err.Error()
	}
	if e.Inline != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.Inline)
	}
	return errmsg
}

// Unwrap gives errors.Is both the Kind sentinel and the cause, so
// errors.Is(err, fs.ErrNotExist) works on a file we could not open.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
