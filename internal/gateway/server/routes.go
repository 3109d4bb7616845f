package server

import (
	"net/http"

	"facilitator/internal/gateway/handler"
	"facilitator/internal/gateway/handler/rpc"
	"facilitator/internal/gateway/middleware"
)

func NewMux(
	apiKey string,
	meetingHandler *handler.MeetingHandler,
	facilitatorHandler *rpc.FacilitatorHandler,
) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	mux.Handle(facilitatorHandler.Handler())

	// HTTP Handlers
	meetingHandler.Register(mux)

	// Middleware
	return middleware.CORS(middleware.APIKey(apiKey, "/")(mux))
}
