package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameprep/config"
	"frameprep/media/source"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestRootMissingVideo(t *testing.T) {
	dir := chdirTemp(t)
	root := filepath.Join(dir, "interim")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--interim-root", root, filepath.Join(dir, "raw", "1.mp4")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrNotFound))
	assert.Contains(t, err.Error(), "1.mp4")

	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr), "nothing is created for a missing video")
}

func TestRootRejectsBadFlags(t *testing.T) {
	chdirTemp(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--quality", "0", "clip.mp4"})
	err := cmd.Execute()
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	cmd = newRootCmd()
	cmd.SetArgs([]string{"--backend", "vlc", "clip.mp4"})
	err = cmd.Execute()
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	cmd = newRootCmd()
	cmd.SetArgs([]string{"a.mp4", "b.mp4"})
	assert.Error(t, cmd.Execute())
}
