// Package apierr classifies errors returned by the Gemini API into a small
// set of user-actionable categories. Structured API error codes are preferred;
// message substring matching is kept as a fallback because some transport
// errors never carry a structured code.
package apierr

import (
	"errors"
	"strings"

	"google.golang.org/genai"
)

// QuotaError indicates the API quota has been exhausted or billing is not enabled.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return "Gemini API quota exceeded. Enable billing on your Google AI Studio account or try again later"
}

func (e *QuotaError) Unwrap() error { return e.Err }

// InvalidKeyError indicates the API key was rejected by the service.
type InvalidKeyError struct {
	Err error
}

func (e *InvalidKeyError) Error() string {
	return "Gemini API key is invalid or has been revoked. Check your key in Google AI Studio"
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// UnknownError wraps a failure that carried no usable error value at all.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return "an unexpected error occurred while calling the Gemini API"
}

func (e *UnknownError) Unwrap() error { return e.Err }

// Classify maps a raw error from a Gemini call to one of the user-actionable
// categories. Errors that match no category are returned unchanged so the
// caller still sees the original failure. A nil error (a failure signal with
// no error value) maps to UnknownError.
func Classify(err error) error {
	if err == nil {
		return &UnknownError{}
	}

	// 429 and 401/403 are unambiguous. A 400 can be a rejected key, a billing
	// precondition, or a plain invalid argument, so it falls through to the
	// message cascade below.
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return &QuotaError{Err: err}
		case 401, 403:
			return &InvalidKeyError{Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "billing"):
		return &QuotaError{Err: err}

	case strings.Contains(msg, "api key not valid"):
		return &InvalidKeyError{Err: err}
	}

	return err
}
