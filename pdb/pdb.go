// This is the upper level for reading PDB files.
// Decide if a file exists, if it is compressed and whether it looks like
// an mmcif file. Then map it into memory, if we can, and call the
// mmcif reader.

package pdb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrew-torda/matrix"
	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
	"github.com/andrew-torda/cifatom/pdb/mmcif"
	"github.com/andrew-torda/cifatom/pdb/zwrap"
)

// ErrNotFound comes with fs.ErrNotExist when the path is not there.
// ErrFormat is for things we will not even try to read.
var (
	ErrNotFound = errors.New("pdb: file not found")
	ErrFormat   = errors.New("pdb: not an mmcif file")
)

const (
	oldFmt byte = iota
	mmcifFmt
	unkFmt
)

// oldOrMmcif guesses the format from the name.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
// Only whole extensions count, so x.pdbx is not an old PDB file.
// Anything we do not recognise gets a chance as mmcif.
func oldOrMmcif(fname string) byte {
	s := filepath.Base(fname)
	i := strings.IndexByte(s, '.')
	if i == -1 {
		return unkFmt
	}
	exts := strings.Split(strings.ToLower(s[i+1:]), ".") // ent.gz to [ent gz]
	if len(exts) > 1 && exts[len(exts)-1] == "gz" {
		exts = exts[:len(exts)-1]
	}
	switch exts[len(exts)-1] {
	case "cif", "mmcif":
		return mmcifFmt
	case "pdb", "ent":
		return oldFmt
	}
	return unkFmt
}

// A Loader opens files for the mmcif reader. It decides whether to map
// the file into memory and logs what it did. The zero value does not
// map files and logs nowhere.
type Loader struct {
	Log  zerolog.Logger
	Mmap bool
}

// NewLoader returns a Loader that logs to log.
func NewLoader(log zerolog.Logger, useMmap bool) *Loader {
	return &Loader{Log: log, Mmap: useMmap}
}

var dfltLoader = &Loader{Log: zerolog.Nop(), Mmap: true}

// mappedFile is a file we have mapped into memory. Close unmaps and
// then closes the file.
type mappedFile struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

func (m *mappedFile) Close() error {
	return errors.Join(m.mm.Unmap(), m.fp.Close())
}

// checkPath does the checks we can do without reading anything.
func checkPath(fname string) (fs.FileInfo, error) {
	fi, err := os.Stat(fname)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, fname, err)
	case err != nil:
		return nil, &mmcif.ParseError{Kind: mmcif.KindIO, Desc: "stat " + fname, Err: err}
	case fi.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", ErrFormat, fname)
	case oldOrMmcif(fname) == oldFmt:
		return nil, fmt.Errorf("%w: %s looks like an old format PDB file", ErrFormat, fname)
	}
	return fi, nil
}

// open returns a reader for fname. Regular files with something in them
// are mapped if the loader says so. If mapping fails, we just read the
// file. Compressed files are decompressed.
func (l *Loader) open(fname string) (*zwrap.FpGzip, error) {
	fi, err := checkPath(fname)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, &mmcif.ParseError{Kind: mmcif.KindIO, Desc: "opening " + fname, Err: err}
	}
	var rc io.ReadCloser = fp
	if l.Mmap && fi.Mode().IsRegular() && fi.Size() > 0 {
		if mm, err := mmap.Map(fp, mmap.RDONLY, 0); err != nil {
			l.Log.Debug().Err(err).Str("file", fname).Msg("mmap failed, reading instead")
		} else {
			rc = &mappedFile{Reader: bytes.NewReader(mm), mm: mm, fp: fp}
		}
	}
	rdr, err := zwrap.WrapMaybe(rc)
	if err != nil {
		rc.Close()
		return nil, &mmcif.ParseError{Kind: mmcif.KindIO, Desc: "decompressing " + fname, Err: err}
	}
	return rdr, nil
}

// with opens fname, hands it to do and logs how it went. do returns the
// number of atoms it found.
func (l *Loader) with(fname, op string, do func(io.Reader) (int, error)) error {
	start := time.Now()
	rdr, err := l.open(fname)
	if err != nil {
		return err
	}
	defer rdr.Close()
	n, err := do(rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	src := "file"
	if rdr.Src() == cmmn.GzipSrc {
		src = "gzip"
	}
	l.Log.Debug().Str("file", fname).Str("op", op).Str("src", src).
		Int("atoms", n).Dur("elapsed", time.Since(start)).Msg("read")
	return nil
}

// ParseMmcif reads every atom_site row of an mmcif file, which may be
// compressed.
func (l *Loader) ParseMmcif(fname string) ([]cmmn.Atom, error) {
	var atoms []cmmn.Atom
	err := l.with(fname, "parse", func(r io.Reader) (n int, err error) {
		atoms, err = mmcif.Parse(r)
		return len(atoms), err
	})
	if err != nil {
		return nil, err
	}
	return atoms, nil
}

// Atoms is ParseMmcif under the name the query has.
func (l *Loader) Atoms(fname string) ([]cmmn.Atom, error) { return l.ParseMmcif(fname) }

// AtomCount counts atom_site rows without decoding them.
func (l *Loader) AtomCount(fname string) (int, error) {
	var n int
	err := l.with(fname, "count", func(r io.Reader) (int, error) {
		var err error
		n, err = mmcif.Count(r)
		return n, err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// AtomPositions returns the coordinates of every atom, in file order.
func (l *Loader) AtomPositions(fname string) (cmmn.XyzSl, error) {
	var xyz cmmn.XyzSl
	err := l.with(fname, "positions", func(r io.Reader) (n int, err error) {
		xyz, err = mmcif.Positions(r)
		return len(xyz), err
	})
	if err != nil {
		return nil, err
	}
	return xyz, nil
}

// PositionMatrix puts the coordinates in an n x 3 matrix, one atom per
// row. The matrix package only has float32, which is more than the
// three decimal places in the file.
func (l *Loader) PositionMatrix(fname string) (*matrix.FMatrix2d, error) {
	xyz, err := l.AtomPositions(fname)
	if err != nil {
		return nil, err
	}
	return XyzToMatrix(xyz), nil
}

// XyzToMatrix copies coordinates to an n x 3 matrix.
func XyzToMatrix(xyz cmmn.XyzSl) *matrix.FMatrix2d {
	mat := matrix.NewFMatrix2d(len(xyz), 3)
	for i, x := range xyz {
		mat.Mat[i][0] = float32(x.X)
		mat.Mat[i][1] = float32(x.Y)
		mat.Mat[i][2] = float32(x.Z)
	}
	return mat
}

// Chains reads a file and splits the atoms into chains, per model.
func (l *Loader) Chains(fname string) (cmmn.ChnSl, error) {
	atoms, err := l.ParseMmcif(fname)
	if err != nil {
		return nil, err
	}
	return cmmn.GetChains(atoms), nil
}

// ParseMmcif uses a loader that maps files and does not log.
func ParseMmcif(fname string) ([]cmmn.Atom, error) { return dfltLoader.ParseMmcif(fname) }

// Atoms uses a loader that maps files and does not log.
func Atoms(fname string) ([]cmmn.Atom, error) { return dfltLoader.Atoms(fname) }

// AtomCount uses a loader that maps files and does not log.
func AtomCount(fname string) (int, error) { return dfltLoader.AtomCount(fname) }

// AtomPositions uses a loader that maps files and does not log.
func AtomPositions(fname string) (cmmn.XyzSl, error) { return dfltLoader.AtomPositions(fname) }

// PositionMatrix uses a loader that maps files and does not log.
func PositionMatrix(fname string) (*matrix.FMatrix2d, error) {
	return dfltLoader.PositionMatrix(fname)
}

// Chains uses a loader that maps files and does not log.
func Chains(fname string) (cmmn.ChnSl, error) { return dfltLoader.Chains(fname) }
