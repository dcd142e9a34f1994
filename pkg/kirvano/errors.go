package kirvano

import "errors"

var (
	// ErrUserIDNotFound is returned when no identity strategy yields a
	// Telegram user id for the payload.
	ErrUserIDNotFound = errors.New("user_id not found")

	// ErrPhoneNotNumeric is returned when the customer phone number cannot
	// serve as a user id. The extractor swallows it and moves on to the
	// metadata strategies.
	ErrPhoneNotNumeric = errors.New("phone number is not a numeric user id")

	// ErrMetadataIDMalformed is returned when a metadata id field is present
	// but cannot be coerced to an integer. Unlike ErrPhoneNotNumeric this
	// one propagates to the caller.
	ErrMetadataIDMalformed = errors.New("malformed user id in metadata")
)
