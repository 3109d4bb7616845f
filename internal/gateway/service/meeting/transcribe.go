package meeting

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	mixer "facilitator/internal/audio"
	"facilitator/internal/gateway/repository/audio"
	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/types"
)

// Transcribe mixes the two uploads and transcribes the result.
func (s *Service) Transcribe(ctx context.Context, host, meet io.Reader) (types.Transcription, error) {
	id := s.newID()
	rec := s.startTrace(id, trace.KindTranscript, 0)
	ctx, counter := withCounter(ctx)
	tr, err := s.transcribe(ctx, host, meet)
	s.finishTrace(ctx, &rec, counter, tr, err)
	return tr, err
}

func (s *Service) transcribe(ctx context.Context, host, meet io.Reader) (types.Transcription, error) {
	ref, release, err := s.stageAudio(ctx, host, meet)
	if err != nil {
		return types.Transcription{}, err
	}
	defer release()
	return s.tasks.Transcribe(ctx, ref)
}

// stageAudio writes the uploads to disk, mixes them and uploads the mix.
// release deletes the uploaded object.
func (s *Service) stageAudio(ctx context.Context, host, meet io.Reader) (types.AudioRef, func(), error) {
	if s.audio == nil || s.mixer == nil {
		return types.AudioRef{}, nil, ErrAudioUnavailable
	}
	if host == nil || meet == nil {
		return types.AudioRef{}, nil, fmt.Errorf("%w: host_audio and meet_audio are required", ErrInvalidInput)
	}
	dir, err := os.MkdirTemp(s.tempDir, "interval-*")
	if err != nil {
		return types.AudioRef{}, nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("remove temp dir %s: %v", dir, err)
		}
	}()

	hostPath := filepath.Join(dir, "host.webm")
	meetPath := filepath.Join(dir, "meet.webm")
	mixedPath := filepath.Join(dir, "mixed.mp3")
	if err := writeFile(hostPath, host); err != nil {
		return types.AudioRef{}, nil, err
	}
	if err := writeFile(meetPath, meet); err != nil {
		return types.AudioRef{}, nil, err
	}
	if err := s.mixer.Mix(ctx, hostPath, meetPath, mixedPath); err != nil {
		return types.AudioRef{}, nil, err
	}

	f, err := os.Open(mixedPath)
	if err != nil {
		return types.AudioRef{}, nil, fmt.Errorf("open mixed audio: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return types.AudioRef{}, nil, fmt.Errorf("stat mixed audio: %w", err)
	}
	key := audio.ObjectKey(uuid.NewString())
	ref, err := s.audio.Put(ctx, key, f, info.Size(), mixer.MIMEType)
	if err != nil {
		return types.AudioRef{}, nil, fmt.Errorf("upload mixed audio: %w", err)
	}
	log.Printf("uploaded mixed audio: %s", ref.URI)

	release := func() {
		if err := s.audio.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Printf("delete mixed audio %s: %v", key, err)
		}
	}
	return ref, release, nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
