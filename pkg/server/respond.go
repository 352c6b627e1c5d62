package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

type apiError struct {
	Error string `json:"error"`
	Text  string `json:"text,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor はパイプラインのエラーを HTTP ステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrUnknownStyle),
		errors.Is(err, domain.ErrUnknownAspectRatio),
		errors.Is(err, domain.ErrUnknownFlow):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoImageProduced),
		errors.Is(err, domain.ErrEmptyResponse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoModelAvailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrServiceError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーを JSON で返します。サービスの詳細はログにだけ残します。
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, text string) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusBadGateway:
		msg = "upstream service error"
	case http.StatusInternalServerError:
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "リクエスト処理エラー", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.WarnContext(r.Context(), "リクエストを処理できませんでした", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, apiError{Error: msg, Text: text})
}
