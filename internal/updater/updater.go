// Package updater drives the copyright rewrite pipeline: enumerate
// tracked files, extract attribution, aggregate ownership, rewrite
// headers.
package updater

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/waveform80/pemmican/internal/copyright"
	"github.com/waveform80/pemmican/internal/header"
	"github.com/waveform80/pemmican/internal/vcs"
)

// Updater rewrites the headers of every matched tracked file. Processing
// is strictly serial and two-phase: attribution is gathered file by file
// and aggregated across the whole set, then each file is rewritten in
// turn. The run halts at the first failure in either phase.
type Updater struct {
	// Root is the repository root; enumerated paths are relative to it.
	Root       string
	Client     vcs.Client
	Include    []string
	Exclude    []string
	Additional []copyright.Owner
	Style      header.Style
	Log        *logrus.Logger
}

// Run executes one full pass over the repository.
func (u *Updater) Run(ctx context.Context) error {
	files, err := u.Client.ListFiles(ctx)
	if err != nil {
		return err
	}
	files, err = vcs.FilterFiles(files, u.Include, u.Exclude)
	if err != nil {
		return err
	}
	u.logf("matched %d files", len(files))

	var contributions []copyright.Contribution
	for _, path := range files {
		cs, err := u.Client.Blame(ctx, path)
		if err != nil {
			return err
		}
		contributions = append(contributions, cs...)
	}
	owners := copyright.Aggregate(contributions, u.Additional)

	for _, path := range files {
		entries, ok := owners[path]
		if !ok {
			// Nothing attributed to the file (e.g. empty at HEAD).
			u.logf("skipping %s: no attributed lines", path)
			continue
		}
		u.logf("rewriting %s (%d owners)", path, len(entries))
		if err := header.Rewrite(filepath.Join(u.Root, path), entries, u.Style); err != nil {
			return fmt.Errorf("updating %s: %w", path, err)
		}
	}
	return nil
}

func (u *Updater) logf(format string, args ...any) {
	if u.Log != nil {
		u.Log.Debugf(format, args...)
	}
}
