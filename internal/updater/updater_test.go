package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform80/pemmican/internal/copyright"
	"github.com/waveform80/pemmican/internal/header"
	"github.com/waveform80/pemmican/internal/vcs"
)

// fakeClient serves canned file lists and attributions, standing in for
// the git subprocess.
type fakeClient struct {
	files    []string
	blame    map[string][]copyright.Contribution
	blameErr error
}

func (f *fakeClient) ListFiles(ctx context.Context) ([]string, error) {
	return f.files, nil
}

func (f *fakeClient) Blame(ctx context.Context, path string) ([]copyright.Contribution, error) {
	if f.blameErr != nil {
		return nil, f.blameErr
	}
	return f.blame[path], nil
}

func testStyle() header.Style {
	return header.Style{
		Preamble:      []string{"myproj: does a thing"},
		SPDXPrefix:    "SPDX-License-Identifier:",
		CopyPrefix:    "Copyright (c)",
		StripPreamble: true,
		License:       copyright.License{Identifier: "SPDX-License-Identifier: MIT"},
		Comments:      header.DefaultComments(),
	}
}

func TestRunRewritesMatchedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.py"), []byte("print(\"hi\")\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# notes\n"), 0o644))

	u := &Updater{
		Root: root,
		Client: &fakeClient{
			files: []string{"hello.py", "notes.md"},
			blame: map[string][]copyright.Contribution{
				"hello.py": {{Author: "A", Email: "a@x.com", Year: 2024, Path: "hello.py"}},
				"notes.md": {{Author: "A", Email: "a@x.com", Year: 2024, Path: "notes.md"}},
			},
		},
		Exclude: []string{"*.md"},
		Style:   testStyle(),
	}
	require.NoError(t, u.Run(context.Background()))

	rewritten, err := os.ReadFile(filepath.Join(root, "hello.py"))
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "# Copyright (c) 2024 A <a@x.com>\n")

	// Excluded files are untouched.
	skipped, err := os.ReadFile(filepath.Join(root, "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, "# notes\n", string(skipped))
}

func TestRunSkipsUnattributedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "empty.py"), nil, 0o644))

	u := &Updater{
		Root:   root,
		Client: &fakeClient{files: []string{"empty.py"}},
		Style:  testStyle(),
	}
	require.NoError(t, u.Run(context.Background()))

	content, err := os.ReadFile(filepath.Join(root, "empty.py"))
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestRunHaltsOnBlameFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.py"), []byte("print(\"hi\")\n"), 0o644))

	blameErr := &vcs.IntegrationError{Op: "git blame hello.py", Err: errors.New("exit status 128")}
	u := &Updater{
		Root:   root,
		Client: &fakeClient{files: []string{"hello.py"}, blameErr: blameErr},
		Style:  testStyle(),
	}
	err := u.Run(context.Background())
	require.Error(t, err)
	var ierr *vcs.IntegrationError
	assert.ErrorAs(t, err, &ierr)

	// No file was modified.
	content, rerr := os.ReadFile(filepath.Join(root, "hello.py"))
	require.NoError(t, rerr)
	assert.Equal(t, "print(\"hi\")\n", string(content))
}

func TestRunAppliesAdditionalOwners(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.py"), []byte("print(\"hi\")\n"), 0o644))

	u := &Updater{
		Root: root,
		Client: &fakeClient{
			files: []string{"hello.py"},
			blame: map[string][]copyright.Contribution{
				"hello.py": {
					{Author: "A", Email: "a@x.com", Year: 2021, Path: "hello.py"},
					{Author: "B", Email: "b@x.com", Year: 2023, Path: "hello.py"},
				},
			},
		},
		Additional: []copyright.Owner{{Name: "Example Ltd."}},
		Style:      testStyle(),
	}
	require.NoError(t, u.Run(context.Background()))

	content, err := os.ReadFile(filepath.Join(root, "hello.py"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Copyright (c) 2021-2023 Example Ltd.\n")
}
