package mmcif

import (
	"os"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
)

// openFile opens fname and turns a failure into a ParseError. The cause
// is kept, so errors.Is(err, fs.ErrNotExist) works.
func openFile(fname string) (*os.File, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, &ParseError{Kind: KindIO, Desc: "opening " + fname, Err: err}
	}
	return fp, nil
}

// ParseFile is Parse on a plain, uncompressed file.
func ParseFile(fname string) ([]cmmn.Atom, error) {
	fp, err := openFile(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Parse(fp)
}

// CountFile is Count on a plain, uncompressed file.
func CountFile(fname string) (int, error) {
	fp, err := openFile(fname)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	return Count(fp)
}

// PositionsFile is Positions on a plain, uncompressed file.
func PositionsFile(fname string) (cmmn.XyzSl, error) {
	fp, err := openFile(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Positions(fp)
}
