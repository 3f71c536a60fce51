package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrBusy indicates the admission gate rejected the request.
	ErrBusy = errors.New("service busy")
	// ErrModelNotReady indicates the model did not become ready within the wait budget.
	ErrModelNotReady = errors.New("model not ready")
	// ErrUnsupportedFormat indicates a disallowed file extension or content type.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmptyUpload indicates a zero-byte upload body.
	ErrEmptyUpload = errors.New("empty upload")
	// ErrTooLarge indicates the upload exceeded the configured byte cap.
	ErrTooLarge = errors.New("upload too large")
	// ErrEncodeTimeout indicates the normalizer subprocess exceeded its deadline.
	ErrEncodeTimeout = errors.New("encode timeout")
	// ErrEncodeFailed indicates the normalizer subprocess exited non-zero.
	ErrEncodeFailed = errors.New("encode failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a pipeline error to the response status code. Anything not
// tagged with a sentinel collapses to 500; this is the single catch-all
// mapping point for the request pipeline.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrModelNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrEmptyUpload):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEncodeTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrEncodeFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the operator-language message presented to clients for a
// pipeline error. Untyped errors never leak internals; they surface as a
// generic internal-error message.
func Detail(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "Service busy. Retry in a few seconds."
	case errors.Is(err, ErrModelNotReady):
		return "Model not loaded yet. Retry in a few minutes."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported audio format"
	case errors.Is(err, ErrEmptyUpload):
		return "Empty file"
	case errors.Is(err, ErrTooLarge):
		return "File too large"
	case errors.Is(err, ErrEncodeTimeout):
		return "Audio processing timed out"
	case errors.Is(err, ErrEncodeFailed):
		return "Could not process the audio"
	default:
		return "Internal error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
