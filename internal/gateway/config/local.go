package config

import (
	"os"
	"strings"
)

// localAudioConfig targets the docker-compose MinIO; the model cannot read
// s3:// URIs, so local runs pair it with the fake LLM.
func localAudioConfig() AudioConfig {
	return AudioConfig{
		Enabled:   true,
		Endpoint:  firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_MINIO_ENDPOINT")), "minio:9000"),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER")), "facilitator"),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD")), "facilitator123"),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("BUCKET_NAME")), "facilitator-audio"),
		UseSSL:    false,
		URIScheme: firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_URI_SCHEME")), "s3"),
		FFmpeg:    firstNonEmpty(strings.TrimSpace(os.Getenv("FFMPEG_PATH")), "ffmpeg"),
		Bitrate:   firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_BITRATE")), "192k"),
	}
}
