package httpclient

import (
	"errors"
	"fmt"
	"io"
)

// ResponseTooLargeError means an agent response body blew past the configured
// cap (config key response_body_limit).
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body larger than %d byte cap", e.Limit)
}

// IsResponseTooLarge reports whether err wraps a ResponseTooLargeError.
func IsResponseTooLarge(err error) bool {
	var tooLarge ResponseTooLargeError
	return errors.As(err, &tooLarge)
}

// ReadAllWithLimit drains r up to limit bytes; model endpoints can return
// very large payloads, so every response body in the backend client goes
// through here. Reading one byte past the cap distinguishes an exactly-full
// body from an oversized one. A limit of zero or less reads without a cap.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(&io.LimitedReader{R: r, N: limit + 1})
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}
