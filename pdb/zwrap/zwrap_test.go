// Test Zwrap
package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/cifatom/brokenio"
	"github.com/andrew-torda/cifatom/pdb/cmmn"
	"github.com/andrew-torda/cifatom/pdb/zwrap"
)

// both of these are "andrewsayshello", but the first is compressed.
// Write them to a file and check that the file opener does the right thing.
var gztests = []struct {
	data    []byte
	gzipped bool
}{
	{[]byte{
		0x1f, 0x8b, 0x08, 0x00, 0xb6, 0xf1, 0xa0, 0x5b, 0x00, 0x03,
		0x4b, 0xcc, 0x4b, 0x29, 0x4a, 0x2d, 0x2f, 0x4e, 0xac, 0x2c,
		0xce, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00, 0x44, 0xa8, 0x66,
		0x89, 0x0f, 0x00, 0x00, 0x00},
		true,
	},
	{[]byte("andrewsayshello"), false},
}

// writeToTmp writes a byte slice to a temporary file and returns
// a file pointer.
func writeToTmp(t *testing.T, data []byte) *os.File {
	fname := filepath.Join(t.TempDir(), "del_me_testing")
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		t.Fatal("fail writing to tempfile", err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestWrapMaybe(t *testing.T) {
	for _, x := range gztests {
		fp := writeToTmp(t, x.data)
		rdr, err := zwrap.WrapMaybe(fp)
		if err != nil {
			t.Fatal("WrapMaybe failed", err)
		}
		b, err := io.ReadAll(rdr)
		if err != nil {
			t.Error("reading", err)
		}
		if string(b) != "andrewsayshello" {
			t.Errorf("got %q gzipped %v", b, x.gzipped)
		}
		want := cmmn.FileSrc
		if x.gzipped {
			want = cmmn.GzipSrc
		}
		if rdr.Src() != want {
			t.Error("wrong source type for gzipped", x.gzipped)
		}
		if err := rdr.Close(); err != nil {
			t.Error("close", err)
		}
		if err := fp.Close(); err == nil {
			t.Error("file should already be closed")
		}
	}
}

func TestWrap(t *testing.T) {
	for _, x := range gztests {
		_, err := zwrap.Wrap(io.NopCloser(bytes.NewReader(x.data)))
		if (err == nil) != x.gzipped {
			t.Error("gzipped", x.gzipped, "but got", err)
		}
	}
}

func TestShortAndEmpty(t *testing.T) {
	for _, in := range []string{"", "x", "\x1f"} {
		rdr, err := zwrap.WrapMaybe(io.NopCloser(bytes.NewReader([]byte(in))))
		if err != nil {
			t.Fatal(err)
		}
		if b, _ := io.ReadAll(rdr); string(b) != in {
			t.Errorf("got %q wanted %q", b, in)
		}
	}
}

// TestBrokenGzip has the magic number, then rubbish.
func TestBrokenGzip(t *testing.T) {
	_, err := zwrap.WrapMaybe(io.NopCloser(bytes.NewReader([]byte{0x1f, 0x8b, 1, 2, 3})))
	if err == nil {
		t.Error("broken gzip header should be an error")
	}
}

func TestReadError(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(bytes.Repeat([]byte("abcdefgh"), 1000))
	zw.Close()
	br := brokenio.NewReader(bytes.NewReader(buf.Bytes()))
	br.SetFailAfter(buf.Len() / 2)
	rdr, err := zwrap.WrapMaybe(br)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = io.ReadAll(rdr); !errors.Is(err, brokenio.ErrBroken) {
		t.Error("wanted the read error to come through, got", err)
	}
}
