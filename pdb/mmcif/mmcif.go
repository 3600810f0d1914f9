package mmcif

import (
	"fmt"
	"io"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
)

const iniCoordLen = 256 // Initially make room for this many atoms

// How much of each row do we look at ?
type mode uint8

const (
	modeCount     mode = iota // group_PDB only
	modePositions             // group_PDB, number of values and x, y, z
	modeAtoms                 // everything
)

// atomReader holds everything the state functions need. There is one
// per call and nothing is shared, so calls on different readers may run
// at the same time.
type atomReader struct {
	sc      *lineScanner
	mode    mode
	headers []string
	acn     *acn
	scrtch  []bSlice // reused for splitting each row
	nrow    int
	atoms   []cmmn.Atom
	xyz     cmmn.XyzSl
	err     error // always a *ParseError if set
}

func newAtomReader(r io.Reader, m mode) *atomReader {
	ar := &atomReader{sc: newLineScanner(r), mode: m}
	switch m {
	case modeAtoms:
		ar.atoms = make([]cmmn.Atom, 0, iniCoordLen)
	case modePositions:
		ar.xyz = make(cmmn.XyzSl, 0, iniCoordLen)
	}
	return ar
}

// stateFn is the type of state function. It returns the next
// state function or nil when we are finished.
type stateFn func(*atomReader) stateFn

// stop is for when the scanner says there is no more. It might be end of
// input, or it might be an error that the scanner has kept.
func (ar *atomReader) stop() stateFn {
	if ar.sc.err != nil {
		ar.err = ar.sc.err
	}
	return nil
}

func (ar *atomReader) decodeErr(col, desc string, err error) *ParseError {
	return &ParseError{
		Kind: KindDecode, Line: ar.sc.n, Column: col,
		Inline: string(ar.sc.line), Desc: desc, Err: err,
	}
}

// stateStart reads the first line.
func stateStart(ar *atomReader) stateFn {
	if !ar.sc.scan() {
		return ar.stop()
	}
	return stateSeekLoop
}

// stateSeekLoop jumps over everything until a loop_ whose first
// header is in the atom_site category. Text fields are skipped as a
// whole, since their lines can look like anything.
func stateSeekLoop(ar *atomReader) stateFn {
	for {
		switch ar.sc.kind {
		case lnLoop:
			if !ar.sc.scan() {
				return ar.stop()
			}
			if ar.sc.kind == lnAtomSite {
				return stateHeader
			}
			continue // look at this line again, it might be another loop_
		case lnText:
			if !ar.skipText() {
				return ar.stop()
			}
		}
		if !ar.sc.scan() {
			return ar.stop()
		}
	}
}

// skipText leaves the scanner on the line that closes a text field.
// An unclosed text field runs to the end of the input, so we just
// finish without finding a table.
func (ar *atomReader) skipText() bool {
	for ar.sc.scan() {
		if ar.sc.kind == lnText {
			return true
		}
	}
	return false
}

// stateHeader collects the _atom_site. column names. When the first
// line that is not a header comes, we find our columns. If any are
// missing, that is it.
func stateHeader(ar *atomReader) stateFn {
	for ar.sc.kind == lnAtomSite {
		ar.headers = append(ar.headers, headerName(ar.sc.line))
		if !ar.sc.scan() {
			break
		}
	}
	if ar.sc.err != nil {
		return ar.stop()
	}
	acn, err := resolveCols(ar.headers)
	if err != nil {
		ar.err = &ParseError{Kind: KindSchema, Line: ar.sc.n, Err: err}
		return nil
	}
	ar.acn = acn
	ar.scrtch = make([]bSlice, len(ar.headers)+1)
	if ar.sc.kind == lnEOF { // headers and no rows
		return nil
	}
	return stateRows
}

// stateRows reads rows until something that cannot be a row. A comment,
// loop_, data item or new block all end the table. We only read the
// first atom_site table, so after this we are finished.
func stateRows(ar *atomReader) stateFn {
	for {
		switch ar.sc.kind {
		case lnData:
			if err := ar.row(); err != nil {
				ar.err = err
				return nil
			}
		case lnText:
			ar.err = ar.decodeErr("", "multi-line values are not allowed in atom_site", nil)
			return nil
		default:
			return nil
		}
		if !ar.sc.scan() {
			return ar.stop()
		}
	}
}

// row handles the current line. How much we look at depends on the mode.
func (ar *atomReader) row() error {
	line := ar.sc.line
	if ar.mode == modeCount {
		var grp bSlice
		if ar.acn.groupPDB.n == 0 {
			grp = firstField(line)
		} else {
			cmpnt, err := splitRow(line, ar.scrtch)
			if err != nil {
				return ar.decodeErr("", "splitting row", err)
			}
			if len(cmpnt) <= ar.acn.groupPDB.n {
				return ar.decodeErr("", ar.nValMsg(len(cmpnt)), nil)
			}
			grp = cmpnt[ar.acn.groupPDB.n]
		}
		if _, ok := cmmn.GroupOf(grp); !ok {
			return ar.decodeErr(ar.acn.groupPDB.cifName, fmt.Sprintf("unknown record type %q", grp), nil)
		}
		ar.nrow++
		return nil
	}

	cmpnt, err := splitRow(line, ar.scrtch)
	if err != nil {
		return ar.decodeErr("", "splitting row", err)
	}
	if len(cmpnt) != len(ar.headers) {
		return ar.decodeErr("", ar.nValMsg(len(cmpnt)), nil)
	}
	grpTok := cmpnt[ar.acn.groupPDB.n]
	grp, ok := cmmn.GroupOf(grpTok)
	if !ok {
		return ar.decodeErr(ar.acn.groupPDB.cifName, fmt.Sprintf("unknown record type %q", grpTok), nil)
	}
	d := decoder{cmpnt: cmpnt}
	if ar.mode == modePositions {
		xyz := d.getxyz(ar.acn)
		if d.err != nil {
			return ar.decodeErr(d.col, "", d.err)
		}
		ar.xyz = append(ar.xyz, xyz)
		ar.nrow++
		return nil
	}
	ar.atoms = append(ar.atoms, cmmn.Atom{})
	a := &ar.atoms[len(ar.atoms)-1]
	d.atom(ar.acn, grp, a)
	if d.err != nil {
		return ar.decodeErr(d.col, "", d.err)
	}
	ar.nrow++
	a.ID = ar.nrow
	a.Line = ar.sc.n
	return nil
}

// nValMsg is for rows with the wrong number of values. fields() stops
// one past the number of headers, so that is "more than".
func (ar *atomReader) nValMsg(got int) string {
	if got > len(ar.headers) {
		return fmt.Sprintf("more than %d values in row", len(ar.headers))
	}
	return fmt.Sprintf("found %d values, expected %d", got, len(ar.headers))
}

// run drives the state functions.
func (ar *atomReader) run() error {
	for state := stateFn(stateStart); state != nil; {
		state = state(ar)
	}
	return ar.err
}

// Parse reads the first atom_site table in r and returns its rows in
// file order. A file without an atom_site table gives an empty slice
// and no error. Any error means no atoms at all.
func Parse(r io.Reader) ([]cmmn.Atom, error) {
	ar := newAtomReader(r, modeAtoms)
	if err := ar.run(); err != nil {
		return nil, err
	}
	return ar.atoms, nil
}

// Count returns the number of rows Parse would return. It only checks
// the record type of each row, so it will count rows that Parse would
// refuse because of a bad number.
func Count(r io.Reader) (int, error) {
	ar := newAtomReader(r, modeCount)
	if err := ar.run(); err != nil {
		return 0, err
	}
	return ar.nrow, nil
}

// Positions returns Cartn_x, Cartn_y and Cartn_z of every row, in file
// order. The other columns are not decoded.
func Positions(r io.Reader) (cmmn.XyzSl, error) {
	ar := newAtomReader(r, modePositions)
	if err := ar.run(); err != nil {
		return nil, err
	}
	return ar.xyz, nil
}
