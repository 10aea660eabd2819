package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/dootsh/doot/pkg/config"
	"github.com/dootsh/doot/pkg/store"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// commandFixture wires a RootOpts against temp directories, bypassing Setup
// so tests control the config and working directory directly.
type commandFixture struct {
	opts    *opts.RootOpts
	baseDir string
	target  string
	out     *bytes.Buffer
}

func newCommandFixture(t *testing.T, mode config.Mode) *commandFixture {
	t.Helper()

	baseDir := t.TempDir()
	target := t.TempDir()

	cfg := &config.Config{
		Version: config.SupportedVersion,
		Mode:    mode,
		Plans: map[string][]string{
			"everything": nil,
			"minimal":    {"shell"},
		},
		Groups: map[string]map[string]string{
			"shell": {"home": target},
		},
	}

	out := &bytes.Buffer{}
	return &commandFixture{
		opts: &opts.RootOpts{
			SkipConfirm: true,
			Config:      cfg,
			Store:       store.New(mode),
			BaseDir:     baseDir,
			In:          strings.NewReader(""),
			Out:         out,
		},
		baseDir: baseDir,
		target:  target,
		out:     out,
	}
}

func (f *commandFixture) run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	cmd.SetArgs(args)
	cmd.SetOut(f.out)
	cmd.SetErr(f.out)
	return cmd.ExecuteContext(ctx)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportGroupCommand(t *testing.T) {
	f := newCommandFixture(t, config.ModeFile)
	writeFile(t, filepath.Join(f.target, ".bashrc"), "export PATH=$PATH\n")
	writeFile(t, filepath.Join(f.target, "conf", "aliases"), "alias ll='ls -l'\n")

	err := f.run(t, NewImportCmd(f.opts), "group", "shell", "home")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(f.baseDir, "shell", ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "export PATH=$PATH\n", string(got))

	got, err = os.ReadFile(filepath.Join(f.baseDir, "shell", "conf", "aliases"))
	require.NoError(t, err)
	assert.Equal(t, "alias ll='ls -l'\n", string(got))

	assert.Contains(t, f.out.String(), "Import group 'shell'")
}

func TestExportPlanCommand(t *testing.T) {
	f := newCommandFixture(t, config.ModeFile)
	writeFile(t, filepath.Join(f.baseDir, "shell", ".bashrc"), "export EDITOR=vi\n")

	err := f.run(t, NewExportCmd(f.opts), "plan", "everything", "home")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(f.target, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "export EDITOR=vi\n", string(got))

	assert.Contains(t, f.out.String(), "Export plan 'everything'")
}

func TestExportGroupLinkModeCommand(t *testing.T) {
	f := newCommandFixture(t, config.ModeLink)
	writeFile(t, filepath.Join(f.baseDir, "shell", ".profile"), "umask 022\n")

	err := f.run(t, NewExportCmd(f.opts), "group", "shell", "home")
	require.NoError(t, err)

	dest := filepath.Join(f.target, ".profile")
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	link, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.baseDir, "shell", ".profile"), link)
}

func TestTransferErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "unknown group",
			args:    []string{"group", "nope", "home"},
			wantErr: config.ErrUnknownGroup,
		},
		{
			name:    "unknown plan",
			args:    []string{"plan", "nope", "home"},
			wantErr: config.ErrUnknownPlan,
		},
		{
			name:    "unknown resolver",
			args:    []string{"group", "shell", "work"},
			wantErr: config.ErrUnknownResolver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommandFixture(t, config.ModeFile)
			f.opts.SkipConfirm = true

			err := f.run(t, NewImportCmd(f.opts), tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusCommand(t *testing.T) {
	f := newCommandFixture(t, config.ModeFile)
	writeFile(t, filepath.Join(f.baseDir, "shell", ".bashrc"), "a\n")
	writeFile(t, filepath.Join(f.target, ".bashrc"), "b\n")

	err := f.run(t, NewStatusCmd(f.opts), "home")
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "Status for resolver home")
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, "out-of-sync")
	assert.Contains(t, out, "everything")
	assert.Contains(t, out, "minimal")
}

func TestStatusCommandWithFiles(t *testing.T) {
	f := newCommandFixture(t, config.ModeFile)
	writeFile(t, filepath.Join(f.baseDir, "shell", ".bashrc"), "same\n")
	writeFile(t, filepath.Join(f.target, ".bashrc"), "same\n")
	writeFile(t, filepath.Join(f.baseDir, "shell", ".vimrc"), "set nu\n")

	err := f.run(t, NewStatusCmd(f.opts), "home", "--files")
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, ".bashrc")
	assert.Contains(t, out, "in-sync")
	assert.Contains(t, out, ".vimrc")
	assert.Contains(t, out, "new")
}

func TestListCommand(t *testing.T) {
	f := newCommandFixture(t, config.ModeFile)

	err := f.run(t, NewListCmd(f.opts))
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "Groups (mode: file)")
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, f.target)
	assert.Contains(t, out, "everything")
	assert.Contains(t, out, "(all groups)")
	assert.Contains(t, out, "minimal")
}
