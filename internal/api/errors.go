package api

import (
	"errors"
	"net/http"

	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/mgpai22/tilawa/internal/store"
	"github.com/mgpai22/tilawa/internal/subtitle"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps core errors to HTTP status codes and stable codes the UI
// can switch on.
func statusFor(err error) (int, string) {
	var merr *editor.MergeError
	switch {
	case errors.Is(err, document.ErrNotFound):
		return http.StatusNotFound, "document_not_found"
	case errors.Is(err, document.ErrNoActiveDocument):
		return http.StatusNotFound, "no_active_document"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "segment_not_found"
	case errors.As(err, &merr):
		if merr.Reason == editor.ReasonSegmentNotFound {
			return http.StatusConflict, string(merr.Reason)
		}
		return http.StatusUnprocessableEntity, string(merr.Reason)
	case errors.Is(err, subtitle.ErrMalformedBlock):
		return http.StatusBadRequest, "malformed_block"
	case errors.Is(err, store.ErrInvalidSegment):
		return http.StatusBadRequest, "invalid_segment"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debugw("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Code: "bad_request"})
}
