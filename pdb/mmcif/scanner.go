package mmcif

import (
	"bufio"
	"bytes"
	"io"
)

const (
	iniLineBuf = 4 * 1024    // start with this buffer for the scanner
	maxLineLen = 1024 * 1024 // and refuse lines longer than this
)

// What sort of line is it ? Mmcif is nice in that the first
// character (or word) of a line is decisive.
type lineKind uint8

const (
	lnEOF      lineKind = iota // no line, end of input or error
	lnData                     // anything else. ATOM and HETATM rows are here
	lnLoop                     // loop_
	lnAtomSite                 // _atom_site.something
	lnItem                     // any other _category.item
	lnCmmt                     // # comment
	lnBlock                    // data_, save_ or global_
	lnText                     // ; at the start starts or ends a text field
)

var (
	atomSitePfx = []byte("_atom_site.")
	loopPfx     = []byte("loop_")
	dataPfx     = []byte("data_")
	savePfx     = []byte("save_")
	globalPfx   = []byte("global_")
)

// hasPrefixFold is bytes.HasPrefix, but case insensitive. Mmcif
// reserved words and data names do not care about case.
func hasPrefixFold(b, pfx []byte) bool {
	return len(b) >= len(pfx) && bytes.EqualFold(b[:len(pfx)], pfx)
}

// classify looks at the start of a line. raw is the line as read,
// b has had its white space trimmed.
func classify(raw, b []byte) lineKind {
	switch {
	case raw[0] == ';': // only counts in the first column
		return lnText
	case b[0] == '#':
		return lnCmmt
	case b[0] == '_':
		if hasPrefixFold(b, atomSitePfx) {
			return lnAtomSite
		}
		return lnItem
	case hasPrefixFold(b, loopPfx):
		return lnLoop
	case hasPrefixFold(b, dataPfx), hasPrefixFold(b, savePfx), hasPrefixFold(b, globalPfx):
		return lnBlock
	}
	return lnData
}

// lineScanner is a wrapper around bufio.Scanner that jumps over blank
// lines, trims white space and says what kind of line it has.
// It also counts newlines in n, so we can print out the line
// number in error messages.
type lineScanner struct {
	*bufio.Scanner          // standard library scanner
	trap           readTrap // between the scanner and the caller's reader
	line           []byte   // current line, trimmed. Only valid until the next scan
	kind           lineKind // what line is
	n              int      // line number in the mmcif file
	err            error    // set when the underlying reader breaks
}

// readTrap remembers the first read error that is not io.EOF.
type readTrap struct {
	r   io.Reader
	err error
}

func (t *readTrap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

func newLineScanner(r io.Reader) *lineScanner {
	ls := &lineScanner{trap: readTrap{r: r}}
	ls.Scanner = bufio.NewScanner(&ls.trap)
	ls.Buffer(make([]byte, 0, iniLineBuf), maxLineLen)
	ls.Split(ls.splitLines)
	return ls
}

// splitLines is bufio.ScanLines, except that when a read has failed,
// the scanner would give us the broken last line as if it were
// complete. We return the read error instead.
func (s *lineScanner) splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && s.trap.err != nil && bytes.IndexByte(data, '\n') < 0 {
		return 0, nil, s.trap.err
	}
	return bufio.ScanLines(data, atEOF)
}

// scan is a wrapper around the library Scan(). It jumps over blank lines.
// On false, it is either end of input or a real error which is left
// in s.err.
func (s *lineScanner) scan() bool {
	for s.Scan() {
		s.n++
		raw := s.Bytes()
		b := bytes.TrimSpace(raw)
		if len(b) == 0 { // blank line
			continue
		}
		s.line = b
		s.kind = classify(raw, b)
		return true
	}
	s.line, s.kind = nil, lnEOF
	if err := s.Err(); err != nil {
		s.err = &ParseError{Kind: KindIO, Line: s.n + 1, Desc: "reading", Err: err}
	}
	return false
}
