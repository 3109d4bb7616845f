package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/util/jsonutil"
)

const maxUploadBytes = 64 << 20

// MeetingHandler serves the form-based HTTP API used by the browser
// extension.
type MeetingHandler struct {
	svc *meeting.Service
}

func NewMeetingHandler(svc *meeting.Service) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

// Register mounts every route on mux.
func (h *MeetingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("POST /transcript", h.HandleTranscript)
	mux.HandleFunc("POST /agenda", h.HandleAgenda)
	mux.HandleFunc("POST /check_agenda", h.HandleCheckAgenda)
	mux.HandleFunc("GET /actions", h.HandleActions)
	mux.HandleFunc("POST /suggest_actions", h.HandleSuggestActions)
	mux.HandleFunc("GET /intervals", h.HandleListIntervals)
	mux.HandleFunc("GET /intervals/{id}", h.HandleInterval)
	mux.HandleFunc("GET /intervals/{id}/watch", h.HandleWatch)
}

func (h *MeetingHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/actions", http.StatusTemporaryRedirect)
}

func (h *MeetingHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	host, meet, closeFiles, err := audioFiles(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeFiles()
	tr, err := h.svc.Transcribe(r.Context(), host, meet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *MeetingHandler) HandleAgenda(w http.ResponseWriter, r *http.Request) {
	host, meet, closeFiles, err := audioFiles(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeFiles()
	agenda, err := meeting.ParseAgenda([]byte(r.FormValue("json_data")))
	if err != nil {
		writeError(w, err)
		return
	}
	id, out, err := h.svc.UpdateAgenda(r.Context(), meeting.UpdateInput{
		IntervalID: r.FormValue("interval_id"),
		Host:       host,
		Meet:       meet,
		Agenda:     agenda,
	})
	w.Header().Set("X-Interval-Id", id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MeetingHandler) HandleCheckAgenda(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, err)
		return
	}
	agenda, err := h.svc.CheckAgenda([]byte(r.FormValue("json_data")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agenda)
}

func (h *MeetingHandler) HandleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListActions())
}

func (h *MeetingHandler) HandleSuggestActions(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, err)
		return
	}
	action := strings.TrimSpace(r.URL.Query().Get("template_action"))
	if action == "" {
		writeError(w, invalid("template_action is required"))
		return
	}
	agenda, err := meeting.ParseAgenda([]byte(r.FormValue("json_data")))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.svc.SuggestAction(r.Context(), action, agenda)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MeetingHandler) HandleListIntervals(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, invalid("limit must be a positive integer"))
			return
		}
		limit = n
	}
	traces, err := h.svc.Traces(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"intervals": traces})
}

func (h *MeetingHandler) HandleInterval(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Trace(r.Context(), strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return invalid("form: " + err.Error())
	}
	return nil
}

// audioFiles opens the host_audio and meet_audio uploads.
func audioFiles(r *http.Request) (host, meet io.Reader, closeFiles func(), err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, nil, invalid("multipart form: " + err.Error())
	}
	hf, _, err := r.FormFile("host_audio")
	if err != nil {
		return nil, nil, nil, invalid("host_audio is required")
	}
	mf, _, err := r.FormFile("meet_audio")
	if err != nil {
		_ = hf.Close()
		return nil, nil, nil, invalid("meet_audio is required")
	}
	return hf, mf, func() { closeAll(hf, mf) }, nil
}

func closeAll(files ...multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

