package roster

import (
	"errors"
	"fmt"
)

// ErrNetwork marks connection-level failures: the request never produced
// an HTTP response.
var ErrNetwork = errors.New("roster service unreachable")

// ErrMalformedResponse marks a response body that is not the JSON the
// service promises, whatever its status.
var ErrMalformedResponse = errors.New("malformed roster service response")

// NetworkError wraps a transport failure. errors.Is(err, ErrNetwork) holds.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// RejectionError is a non-2xx response. Detail is the server's reason,
// empty when the body carried none.
type RejectionError struct {
	Status int
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("roster service rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("roster service rejected request: status %d: %s", e.Status, e.Detail)
}

// Detail extracts the server-provided reason from err, if any.
func Detail(err error) (string, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) && rej.Detail != "" {
		return rej.Detail, true
	}
	return "", false
}
