package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/llm"
	"facilitator/internal/llmtool"
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", meeting.ErrInvalidInput, msg)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	var transport *llm.TransportError
	switch {
	case errors.Is(err, meeting.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, trace.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, meeting.ErrAudioUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, llmtool.ErrExhaustedRetries), errors.As(err, &transport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError answers with {"detail": "..."}.
func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
