// Package zwrap takes a file pointer and optionally wraps it so reads
// come out decompressed and, upon calling Close, the decompressor will
// be closed, followed by the underlying file.
// We decide by looking at the first two bytes, not the file name, so a
// compressed file called x.cif is fine.

package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.ReadCloser
	rdr  io.Reader    // what Read reads from
	zrdr *gzip.Reader // nil if the source was not compressed
}

// Close closes the decompressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fc *FpGzip) Close() error {
	var errz error
	if fc.zrdr != nil {
		errz = fc.zrdr.Close()
	}
	return errors.Join(errz, fc.fp.Close())
}

// Read makes sure we read from the decompressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	return fc.rdr.Read(p)
}

// Src says whether we are decompressing (cmmn.GzipSrc) or not (cmmn.FileSrc).
func (fc *FpGzip) Src() byte {
	if fc.zrdr != nil {
		return cmmn.GzipSrc
	}
	return cmmn.FileSrc
}

// Wrap takes a source that must be gzipped and wraps it so the correct
// Close and Read will be called. If it is not compressed, you get an error.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, rdr: zrdr, zrdr: zrdr}, nil
}

// WrapMaybe will decide if the underlying stream is compressed and
// wrap it if necessary. It peeks at the start of the stream through a
// buffer, so fp does not have to be able to seek. An empty stream is
// not an error. It is just an empty, uncompressed stream.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	br := bufio.NewReader(fp)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) < len(gzipMagic) || [2]byte(magic) != gzipMagic {
		return &FpGzip{fp: fp, rdr: br}, nil
	}
	zrdr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, rdr: zrdr, zrdr: zrdr}, nil
}
