package naming

import "errors"

var (
	// ErrEmptyCompletion is returned when the model produced no text
	ErrEmptyCompletion = errors.New("empty response from language model")
	// ErrMalformedCompletion is returned when the model output is not the expected JSON object
	ErrMalformedCompletion = errors.New("malformed language model output")
	// ErrEmptyProductName is returned when nothing is left of the name after sanitising
	ErrEmptyProductName = errors.New("generated product name is empty")
)
