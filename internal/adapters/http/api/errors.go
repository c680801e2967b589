package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnsupported  = errors.New("unsupported media type")
	ErrUploadTooBig = errors.New("upload too large")
)
