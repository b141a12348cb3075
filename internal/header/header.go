// Package header rewrites the leading comment block of source files,
// replacing whatever header variant previously existed (legacy full
// license text, SPDX tag lines, accumulated copyright lines) with a
// canonical generated header while preserving shebang lines, encoding
// declarations, and the file body.
package header

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/waveform80/pemmican/internal/copyright"
)

// Style is the immutable per-run rewrite configuration, threaded
// explicitly into each rewrite rather than held as process state.
type Style struct {
	// Preamble lines inserted above the copyright lines, e.g. a short
	// project description.
	Preamble []string
	// SPDXPrefix introduces a short-form license tag line, both in the
	// license file and in generated or stale headers.
	SPDXPrefix string
	// CopyPrefix introduces a copyright line, e.g. "Copyright (c)".
	CopyPrefix string
	// StripPreamble controls whether existing commented preamble lines
	// are removed from the old header.
	StripPreamble bool
	// License supplies either the short identifier line or the full
	// license text for the generated header.
	License copyright.License
	// Comments maps file extensions (with leading dot) to the line
	// comment marker used for that file type. Extensions not present
	// use "#". Multi-line block comment styles are unsupported.
	Comments map[string]string
}

// DefaultComments returns the built-in extension to comment-marker table.
func DefaultComments() map[string]string {
	return map[string]string{
		".c":    "//",
		".cpp":  "//",
		".go":   "//",
		".h":    "//",
		".hpp":  "//",
		".java": "//",
		".js":   "//",
		".rs":   "//",
		".ts":   "//",
		".hs":   "--",
		".sql":  "--",
		".rst":  "..",
		".cfg":  "#",
		".in":   "#",
		".py":   "#",
		".sh":   "#",
		".toml": "#",
		".txt":  "#",
		".yaml": "#",
		".yml":  "#",
	}
}

// Marker returns the comment marker for the given path based on its
// extension, defaulting to "#" for unmapped extensions.
func (s Style) Marker(path string) string {
	if m, ok := s.Comments[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "#"
}

type state int

const (
	stateHeader state = iota
	stateLicense
	stateBlank
	stateBody
)

// rewriter is the per-file header rewrite state machine. Created per
// file, discarded once the file is fully streamed.
type rewriter struct {
	style      Style
	marker     string
	copyrights []copyright.Copyright
	w          io.Writer

	state    state
	lineNo   int
	hadIntro bool
}

// comment renders text as a commented line: the bare marker for empty
// text, otherwise marker, space, text.
func (r *rewriter) comment(text string) string {
	if text == "" {
		return r.marker
	}
	return r.marker + " " + text
}

func (r *rewriter) write(line string) error {
	_, err := io.WriteString(r.w, line+"\n")
	return err
}

// emitHeader writes the canonical generated header: an optional spacer
// after a shebang or encoding line, the preamble, one copyright line per
// entry, and the license identifier or full license text.
func (r *rewriter) emitHeader() error {
	var lines []string
	if r.hadIntro {
		lines = append(lines, r.comment(""))
	}
	for _, p := range r.style.Preamble {
		lines = append(lines, r.comment(p))
	}
	if len(r.style.Preamble) > 0 {
		lines = append(lines, r.comment(""))
	}
	for _, c := range r.copyrights {
		lines = append(lines, r.comment(r.style.CopyPrefix+" "+c.String()))
	}
	lines = append(lines, r.comment(""))
	if r.style.License.Identifier != "" {
		lines = append(lines, r.comment(r.style.License.Identifier))
	} else {
		for _, t := range r.style.License.Text {
			lines = append(lines, r.comment(t))
		}
	}
	for _, line := range lines {
		if err := r.write(line); err != nil {
			return err
		}
	}
	return nil
}

// process consumes one raw source line, including its original line
// terminator if any.
func (r *rewriter) process(raw string) error {
	r.lineNo++
	trimmed := strings.TrimRight(raw, " \t\r\n")

	switch r.state {
	case stateHeader:
		switch {
		case r.lineNo == 1 && strings.HasPrefix(trimmed, "#!"):
			// Interpreter directive; always the first line of output.
			r.hadIntro = true
			_, err := io.WriteString(r.w, raw)
			return err
		case r.lineNo <= 2 && strings.HasPrefix(trimmed, r.marker) && encodingRe.MatchString(trimmed):
			r.hadIntro = true
			_, err := io.WriteString(r.w, raw)
			return err
		case trimmed == r.marker:
			// Bare comment marker; a separator being normalized away.
			return nil
		case strings.HasPrefix(trimmed, r.comment(r.style.SPDXPrefix)):
			// Stale SPDX line, superseded.
			return nil
		case strings.HasPrefix(trimmed, r.comment(r.style.CopyPrefix)):
			// Stale copyright line, superseded.
			return nil
		case r.style.StripPreamble && r.isPreamble(trimmed):
			return nil
		case r.isLicenseStart(trimmed):
			// A single-line license text starts and ends the old block
			// on the same line; there is nothing further to skip.
			if len(r.style.License.Text) == 1 {
				if err := r.emitHeader(); err != nil {
					return err
				}
				r.state = stateBlank
				return nil
			}
			r.state = stateLicense
			return nil
		default:
			// First line of real content: emit the generated header and
			// re-process this line under the blank-separator rule.
			if err := r.emitHeader(); err != nil {
				return err
			}
			r.state = stateBlank
			r.lineNo--
			return r.process(raw)
		}

	case stateLicense:
		// Drop the old long-form license text, including the line that
		// ends it.
		if r.isLicenseEnd(trimmed) {
			if err := r.emitHeader(); err != nil {
				return err
			}
			r.state = stateBlank
		}
		return nil

	case stateBlank:
		// Exactly one blank separator between the header and the body.
		r.state = stateBody
		if trimmed != "" {
			if err := r.write(""); err != nil {
				return err
			}
		}
		_, err := io.WriteString(r.w, raw)
		return err

	case stateBody:
		_, err := io.WriteString(r.w, raw)
		return err
	}
	return fmt.Errorf("invalid rewriter state %d", r.state)
}

func (r *rewriter) isPreamble(trimmed string) bool {
	for _, p := range r.style.Preamble {
		if trimmed == r.comment(p) {
			return true
		}
	}
	return false
}

func (r *rewriter) isLicenseStart(trimmed string) bool {
	text := r.style.License.Text
	return len(text) > 0 && trimmed == r.comment(text[0])
}

func (r *rewriter) isLicenseEnd(trimmed string) bool {
	text := r.style.License.Text
	return len(text) > 0 && trimmed == r.comment(text[len(text)-1])
}
