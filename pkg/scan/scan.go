// Package scan reads lots of mmcif files and collects all the
// different element types it finds.
// There is a set of reader goroutines, each with its own map, fed file
// names from a channel. At the end, the maps are merged.
package scan

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/cifatom/pdb"
)

// ErrTooManyErrors is returned when more than Options.MaxErrors files
// could not be read.
var ErrTooManyErrors = errors.New("scan: too many broken files")

// Options for a scan.
type Options struct {
	Workers   int // number of reader goroutines
	MaxFiles  int // stop after this many files. 0 means read everything
	MaxErrors int // give up when this many files are broken
}

// Result is what one reader, or all readers together, found.
type Result struct {
	Elements map[string]int // element symbol to number of atoms
	NFile    int            // files read successfully
	NAtom    int
	NErr     int // files we could not read
}

func newResult() Result { return Result{Elements: make(map[string]int)} }

// merge adds src into dst.
func (dst *Result) merge(src *Result) {
	for k, v := range src.Elements {
		dst.Elements[k] += v
	}
	dst.NFile += src.NFile
	dst.NAtom += src.NAtom
	dst.NErr += src.NErr
}

// isCif says if a name looks like something we can read.
func isCif(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	return strings.HasSuffix(name, ".cif") || strings.HasSuffix(name, ".mmcif")
}

// Files walks the tree from root and returns the mmcif files, compressed
// or not, in lexical order. It stops after maxFile files, but if
// maxFile <= 0, we just walk until there are no more.
func Files(root string, maxFile int) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCif(d.Name()) {
			return nil
		}
		names = append(names, path)
		if maxFile > 0 && len(names) >= maxFile {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return names, nil
}

// Run reads files with opts.Workers readers. A broken file is logged and
// skipped until opts.MaxErrors of them have been seen. Then everything
// stops and you get what was collected so far with ErrTooManyErrors.
func Run(ctx context.Context, ld *pdb.Loader, files []string, opts Options) (*Result, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxErrors < 1 {
		opts.MaxErrors = 1
	}
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		files = files[:opts.MaxFiles]
	}
	g, ctx := errgroup.WithContext(ctx)
	nmChan := make(chan string)
	g.Go(func() error {
		defer close(nmChan)
		for _, f := range files {
			if ctx.Err() != nil {
				return nil
			}
			select {
			case nmChan <- f:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	var nErr atomic.Int32
	parts := make([]Result, opts.Workers)
	for i := range parts {
		part := &parts[i]
		*part = newResult()
		g.Go(func() error {
			for fname := range nmChan {
				if ctx.Err() != nil { // another reader gave up, or we were cancelled
					return nil
				}
				atoms, err := ld.ParseMmcif(fname)
				if err != nil {
					ld.Log.Warn().Err(err).Str("file", fname).Msg("skipping")
					part.NErr++
					if n := int(nErr.Add(1)); n >= opts.MaxErrors {
						return fmt.Errorf("%w: %d", ErrTooManyErrors, n)
					}
					continue
				}
				part.NFile++
				part.NAtom += len(atoms)
				for j := range atoms {
					part.Elements[atoms[j].TypeSymbol]++
				}
			}
			return nil
		})
	}
	err := g.Wait()

	res := newResult()
	for i := range parts {
		res.merge(&parts[i])
	}
	ld.Log.Info().Int("files", res.NFile).Int("atoms", res.NAtom).
		Int("errors", res.NErr).Int("workers", opts.Workers).Msg("scan finished")
	return &res, err
}

// WriteCSV writes the element counts, most common first.
func WriteCSV(w io.Writer, elements map[string]int) error {
	type npair struct {
		name string
		n    int
	}
	pairs := make([]npair, 0, len(elements))
	for k, v := range elements {
		pairs = append(pairs, npair{k, v})
	}
	slices.SortFunc(pairs, func(a, b npair) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "n"})
	for _, p := range pairs {
		cw.Write([]string{p.name, strconv.Itoa(p.n)})
	}
	cw.Flush()
	return cw.Error()
}
