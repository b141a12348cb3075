package header

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/waveform80/pemmican/internal/copyright"
)

// PEP 263 style encoding declaration, honored in the first two lines.
var encodingRe = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// renameFile is a seam for testing the failure path of the atomic
// replacement.
var renameFile = os.Rename

// Transform streams src to dst, replacing any existing header with the
// canonical one generated from copyrights and style. marker is the line
// comment marker for the target file type.
func Transform(dst io.Writer, src io.Reader, marker string, copyrights []copyright.Copyright, style Style) error {
	rw := &rewriter{style: style, marker: marker, copyrights: copyrights, w: dst}
	br := bufio.NewReader(src)
	for {
		raw, err := br.ReadString('\n')
		if len(raw) > 0 {
			if perr := rw.process(raw); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
	}
	// A file consisting of nothing but a header still gets one.
	if rw.lineNo > 0 && (rw.state == stateHeader || rw.state == stateLicense) {
		return rw.emitHeader()
	}
	return nil
}

// Rewrite replaces the header of the file at path in place. The new
// content is staged in a temporary file in the same directory (so the
// final rename cannot cross filesystems), the original permission bits
// are copied onto it, and it is renamed over the original only if no
// error occurred. On any error the temporary file is removed and the
// original is left untouched.
func Rewrite(path string, copyrights []copyright.Copyright, style Style) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Transform(w, src, style.Marker(path), copyrights, style); err != nil {
		return fmt.Errorf("rewriting %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = renameFile(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
