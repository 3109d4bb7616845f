package app

import (
	"fmt"
	"log"

	"facilitator/internal/gateway/config"
	"facilitator/internal/gateway/repository/audio"
	"facilitator/internal/gateway/repository/trace"
)

type stores struct {
	audio  audio.Store
	traces trace.Store
}

func initStores(cfg *config.Config) (*stores, error) {
	traces, err := trace.Open(cfg.Trace.DSN, cfg.Trace.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace store: %w", err)
	}
	st := &stores{traces: traces}
	if !cfg.Audio.Enabled {
		log.Printf("audio store: disabled (BUCKET_NAME not set)")
		return st, nil
	}
	s3Cfg := audio.S3Config{
		Endpoint:  cfg.Audio.Endpoint,
		Region:    cfg.Audio.Region,
		AccessKey: cfg.Audio.AccessKey,
		SecretKey: cfg.Audio.SecretKey,
		Bucket:    cfg.Audio.Bucket,
		UseSSL:    cfg.Audio.UseSSL,
		URIScheme: cfg.Audio.URIScheme,
	}
	s3Store, err := audio.NewS3Store(s3Cfg)
	if err != nil {
		_ = traces.Close()
		return nil, fmt.Errorf("failed to initialize audio s3 store: %w", err)
	}
	log.Printf("audio store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
	st.audio = s3Store
	return st, nil
}

func (s *stores) Close() error {
	if s == nil {
		return nil
	}
	return s.traces.Close()
}
