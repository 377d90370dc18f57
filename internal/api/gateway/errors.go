package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResult = errors.New("empty result")
	ErrUpstream    = errors.New("upstream error")
	ErrMalformed   = errors.New("malformed payload")
)

// GatewayError describes one failed source call. It is logged and counted, never returned to gateway callers.
type GatewayError struct {
	Op     string
	City   string
	Source string
	Err    error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s %s via %s: %v", e.Op, e.City, e.Source, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
