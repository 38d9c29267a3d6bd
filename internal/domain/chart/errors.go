package chart

import (
	"errors"
	"fmt"
)

// ErrMissingReference is returned when Params carries no reference time.
var ErrMissingReference = errors.New("missing reference time")

// ChartError reports the failure of one chart in a render pass.
type ChartError struct {
	Chart string
	Err   error
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("%s chart: %v", e.Chart, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}
