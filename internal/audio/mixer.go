// Package audio mixes the host and meeting recordings into one mp3.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const MIMEType = "audio/mp3"

var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// Mixer shells out to ffmpeg.
type Mixer struct {
	Binary  string
	Bitrate string
}

func NewMixer(binary, bitrate string) *Mixer {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(bitrate) == "" {
		bitrate = "192k"
	}
	return &Mixer{Binary: binary, Bitrate: bitrate}
}

func (m *Mixer) Check() error {
	if _, err := exec.LookPath(m.Binary); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, m.Binary)
	}
	return nil
}

// Mix overlays meetPath onto hostPath and writes an mp3 to outputPath. The
// result is as long as the host recording.
func (m *Mixer) Mix(ctx context.Context, hostPath, meetPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, m.Binary, m.args(hostPath, meetPath, outputPath)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("mixing audio: %w\n%s", err, string(out))
	}
	return nil
}

func (m *Mixer) args(hostPath, meetPath, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", hostPath,
		"-i", meetPath,
		"-filter_complex", "[0:a][1:a]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[a]",
		"-map", "[a]",
		"-codec:a", "libmp3lame",
		"-b:a", m.Bitrate,
		"-y",
		outputPath,
	}
}
