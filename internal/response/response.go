// Package response writes JSON bodies and the error envelope shared by all handlers.
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to its HTTP status and writes the error envelope.
// Internal failures are logged and their details hidden from the client.
func Error(w http.ResponseWriter, log logger.ZapLogger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	JSON(w, status, errorResponse{
		Error: apperror.PublicMessage(err),
		Code:  apperror.KindOf(err).String(),
	})
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.InvalidArgument("request body is required")
		}
		return apperror.InvalidArgument("invalid request body: %v", err)
	}
	return nil
}
