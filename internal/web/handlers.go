package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tsload/internal/core"
	"tsload/internal/infer"
)

// handleHealth reports liveness and the number of loads in flight.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":       "ok",
		"active_loads": s.service.ActiveLoads(),
	})
}

// detectRequest is the body for POST /api/detect.
type detectRequest struct {
	Sample string `json:"sample"`
}

// handleDetect runs column type detection on a single sample value.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	writeJSON(w, r, infer.DetectColumnType(infer.Trim(req.Sample)))
}

// parseRequest is the body for POST /api/parse.
type parseRequest struct {
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// parseResponse is the success body for POST /api/parse.
type parseResponse struct {
	Seconds float64 `json:"seconds"`
}

// handleParse converts one value to seconds since the Unix epoch. When a
// format string is supplied it is used verbatim; otherwise the value goes
// through automatic detection.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		seconds float64
		ok      bool
	)
	if req.Format != "" {
		seconds, ok = infer.FormatParseTimestamp(req.Value, req.Format)
	} else {
		seconds, ok = infer.AutoParseTimestamp(req.Value)
	}
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "value could not be parsed")
		return
	}

	writeJSON(w, r, parseResponse{Seconds: seconds})
}

// handleStartLoad accepts a multipart CSV upload and starts an asynchronous
// load. The file is passed through as an io.Reader so memory stays bounded
// regardless of file size.
func (s *Server) handleStartLoad(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.MaxFileSize
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	loadID, err := s.service.StartLoad(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTooManyLoads) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, r, status, err.Error())
		return
	}

	writeJSON(w, r, map[string]string{"load_id": loadID.String()})
}

// handleLoadProgress streams load progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter: the event ID is
// the progress percentage, so reconnecting clients skip what they have seen.
func (s *Server) handleLoadProgress(w http.ResponseWriter, r *http.Request) {
	loadID, ok := loadIDParam(w, r)
	if !ok {
		return
	}

	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, unsubscribe, err := s.service.SubscribeProgress(loadID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming not supported")
		return
	}

	for {
		select {
		case progress, open := <-progressCh:
			if !open {
				// Channel closed, load finished one way or another
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleLoadResult returns the final result of a load.
func (s *Server) handleLoadResult(w http.ResponseWriter, r *http.Request) {
	loadID, ok := loadIDParam(w, r)
	if !ok {
		return
	}

	result, done, err := s.service.Result(loadID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if !done {
		writeError(w, r, http.StatusConflict, "load still in progress")
		return
	}

	writeJSON(w, r, result)
}

// handleCancelLoad cancels an in-progress load.
func (s *Server) handleCancelLoad(w http.ResponseWriter, r *http.Request) {
	loadID, ok := loadIDParam(w, r)
	if !ok {
		return
	}

	if err := s.service.Cancel(loadID); err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, r, map[string]string{"status": "cancelled"})
}

// loadIDParam extracts and validates the loadID URL parameter. On failure it
// writes the error response and returns ok=false.
func loadIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "loadID")
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "missing load ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid load ID")
		return uuid.Nil, false
	}
	return id, true
}
