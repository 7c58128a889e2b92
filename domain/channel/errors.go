package channel

import "errors"

var (
	// ErrInvalidSampleRate is returned when a sample rate cannot be
	// interpreted as a non-negative frequency.
	ErrInvalidSampleRate = errors.New("channel: invalid sample rate")

	// ErrInvalidDType is returned when a value does not name a recognized
	// numeric type descriptor. No coercion is attempted.
	ErrInvalidDType = errors.New("channel: invalid dtype")

	// ErrNotFound is returned by List.Find when no element has the
	// requested name.
	ErrNotFound = errors.New("channel: not found")

	// ErrNoMatch is returned when a catalog query matches no channels.
	ErrNoMatch = errors.New("channel: no channels matched")

	// ErrAmbiguous is returned when a single-channel catalog query matches
	// more than one channel.
	ErrAmbiguous = errors.New("channel: multiple channels matched")
)
