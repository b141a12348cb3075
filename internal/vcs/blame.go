package vcs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/waveform80/pemmican/internal/copyright"
)

// parseBlame parses git blame --line-porcelain output. Every attributed
// line is preceded by a full header group carrying author, author-mail,
// and author-time fields; a content line arriving without that triple is
// an invariant violation of the porcelain format and is fatal.
func parseBlame(output, filePath string) ([]copyright.Contribution, error) {
	var (
		contributions []copyright.Contribution
		author        string
		email         string
		year          int
		haveAuthor    bool
		haveEmail     bool
		haveTime      bool
	)

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// Tab-prefixed lines are the attributed file content; everything
		// else is a header field for the line that follows.
		if strings.HasPrefix(line, "\t") {
			if !haveAuthor || !haveEmail || !haveTime {
				return nil, &IntegrationError{
					Op:  fmt.Sprintf("git blame %s", filePath),
					Err: fmt.Errorf("attributed line without author/email/timestamp header"),
				}
			}
			// Always key by the queried path: after a rename, the
			// porcelain filename field reports the historical path for
			// lines last touched before the rename, which would file
			// the contribution under a name the enumerator never yields.
			c := copyright.Contribution{Author: author, Email: email, Year: year, Path: filePath}
			// One record per contiguous run of identically attributed lines.
			if n := len(contributions); n == 0 || contributions[n-1] != c {
				contributions = append(contributions, c)
			}
			haveAuthor, haveEmail, haveTime = false, false, false
			continue
		}

		switch field, value, _ := strings.Cut(line, " "); field {
		case "author":
			author = value
			haveAuthor = true
		case "author-mail":
			email = strings.Trim(value, "<>")
			haveEmail = true
		case "author-time":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, &IntegrationError{
					Op:  fmt.Sprintf("git blame %s", filePath),
					Err: fmt.Errorf("bad author-time %q: %w", value, err),
				}
			}
			year = time.Unix(ts, 0).UTC().Year()
			haveTime = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning blame output: %w", err)
	}
	return contributions, nil
}
