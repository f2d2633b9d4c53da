package jaegerserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

const maxBodyBytes = 1 << 20

// errorEnvelope is the body of every non-2xx answer.
type errorEnvelope struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// respond writes v and logs when the response could not be encoded.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		s.log.Error("Failed to encode response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

// writeError turns err into the envelope. Internal failures are logged with
// their cause and answered with the generic message only.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := jaegererr.ErrorCode(err)
	status := jaegererr.HTTPStatus(code)

	if code == jaegererr.EInternal {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		var e *jaegererr.Error
		if errors.As(err, &e) && e.Op != "" {
			fields = append(fields, zap.String("op", e.Op))
		}
		s.log.Error("Request failed", fields...)
	} else {
		s.log.Debug("Request rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("reason", jaegererr.ErrorMessage(err)))
	}

	if err := writeJSON(w, status, errorEnvelope{
		StatusCode: status,
		Message:    jaegererr.ErrorMessage(err),
		Timestamp:  s.now().UTC(),
	}); err != nil {
		s.log.Error("Failed to encode error response", zap.Error(err))
	}
}

// decodeJSON reads one JSON value into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tooLarge  *http.MaxBytesError
		domainErr *jaegererr.Error
	)
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, io.EOF):
		return jaegererr.Invalid("Request body is required.")
	case errors.As(err, &tooLarge):
		return jaegererr.Invalid("Request body must not exceed %d bytes.", tooLarge.Limit)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return jaegererr.Invalid("%s must be of type %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return jaegererr.Invalid("Request body is not valid JSON.")
	default:
		return &jaegererr.Error{Code: jaegererr.EInvalid, Msg: "Request body is not valid JSON.", Err: fmt.Errorf("decode: %w", err)}
	}
}
