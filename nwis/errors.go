package nwis

import "errors"

// Failure categories surfaced by this package. Callers match them with
// errors.Is; the wrapped message carries the URL, line number or path
// needed to diagnose the failure.
var (
	// ErrInvalidQuery reports bad caller input, detected before any I/O.
	ErrInvalidQuery = errors.New("nwis: invalid query")

	// ErrNetwork reports a transport failure or a non-2xx response.
	ErrNetwork = errors.New("nwis: request failed")

	// ErrMalformedResponse reports a structural problem in the response
	// text: no data block, or a row that disagrees with the header.
	ErrMalformedResponse = errors.New("nwis: malformed response")
)
