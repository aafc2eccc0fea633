package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/tournevent/fulfillment/pkg/carrier"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status and writes {"error": message}. Messages
// of 500 responses never include internal detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		s.logger.Ctx(r.Context()).Info("Request cancelled by client", zap.String("path", r.URL.Path))
		return
	}

	status := carrier.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Ctx(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: carrier.PublicMessage(err)})
}

// flow derives the request's flow context. A Referer whose path contains
// the configured marker makes it a test flow.
func (s *Server) flow(r *http.Request) carrier.FlowContext {
	return carrier.FlowContext{IsTestFlow: isTestFlowReferrer(r.Referer(), s.testFlowMarker)}
}

func isTestFlowReferrer(referer, marker string) bool {
	if referer == "" || marker == "" {
		return false
	}
	u, err := url.Parse(referer)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, marker)
}
