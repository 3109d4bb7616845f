package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg writes a script that records its arguments and creates the
// output file named by the last argument.
func fakeFFmpeg(t *testing.T, exitCode int) (bin, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a unix shell")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	bin = filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\n" +
		"for a in \"$@\"; do echo \"$a\" >> " + argsFile + "; done\n" +
		"for last; do :; done\n" +
		"echo mixed > \"$last\"\n" +
		"echo 'some diagnostic' >&2\n" +
		"exit " + string(rune('0'+exitCode)) + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func TestMixInvokesFFmpeg(t *testing.T) {
	bin, argsFile := fakeFFmpeg(t, 0)
	out := filepath.Join(t.TempDir(), "mixed.mp3")
	m := NewMixer(bin, "")

	require.NoError(t, m.Mix(context.Background(), "host.webm", "meet.webm", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "mixed\n", string(data))

	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Contains(t, args, "host.webm")
	assert.Contains(t, args, "meet.webm")
	assert.Contains(t, args, "192k")
	assert.Contains(t, strings.Join(args, " "), "duration=first")
	assert.Equal(t, out, args[len(args)-1])
}

func TestMixReportsFailure(t *testing.T) {
	bin, _ := fakeFFmpeg(t, 1)
	m := NewMixer(bin, "128k")
	err := m.Mix(context.Background(), "a", "b", filepath.Join(t.TempDir(), "o.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "some diagnostic")
}

func TestCheckMissingBinary(t *testing.T) {
	m := NewMixer(filepath.Join(t.TempDir(), "no-such-ffmpeg"), "")
	assert.ErrorIs(t, m.Check(), ErrFFmpegNotFound)
}
