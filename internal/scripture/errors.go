package scripture

import "fmt"

// TransportError is returned when a request could not be completed: the
// connection failed, the context was cancelled or the body could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: failed to reach scripture api: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body is not the JSON shape an
// operation expects. Path names the offending field, e.g. "data[2].id".
type DecodeError struct {
	Op   string
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: failed to decode response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: failed to decode response at %s: %v", e.Op, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: scripture api returned status %d", e.Op, e.StatusCode)
}
