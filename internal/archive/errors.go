package archive

import "fmt"

// TransportError means a request could not be made or the server rejected it
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: server returned %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the response body could not be parsed as expected
type DecodeError struct {
	Op  string
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: failed to decode response: %v", e.Op, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
