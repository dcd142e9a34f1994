package kirvano

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// metadataIDKeys are the checkout custom fields checked for a user id, in
// precedence order.
var metadataIDKeys = []string{"telegram_user_id", "user_id"}

// ExtractUserID resolves the Telegram user id from a webhook payload.
// Strategies are tried in order, first match wins:
//  1. customer.phone_number, when every character is a decimal digit
//  2. metadata.telegram_user_id
//  3. metadata.user_id
//
// A phone number that cannot serve as an id falls through silently to the
// metadata strategies. A metadata id that is present but malformed does
// not: it returns ErrMetadataIDMalformed. When no strategy yields an id,
// ErrUserIDNotFound is returned.
//
// A strategy that resolves to 0 short-circuits to ErrUserIDNotFound: the
// alerting workflow cannot act on id 0, and later strategies are not
// consulted once one has produced a value.
func ExtractUserID(ev *Event) (int64, error) {
	if id, err := userIDFromPhone(ev.Customer.PhoneNumber); err == nil {
		if id == 0 {
			return 0, ErrUserIDNotFound
		}
		return id, nil
	}

	for _, key := range metadataIDKeys {
		raw, ok := ev.Metadata[key]
		if !ok || !truthy(raw) {
			continue
		}
		id, err := coerceUserID(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: metadata[%q]=%v", ErrMetadataIDMalformed, key, raw)
		}
		if id == 0 {
			return 0, ErrUserIDNotFound
		}
		return id, nil
	}

	return 0, ErrUserIDNotFound
}

// userIDFromPhone treats an all-digits phone number as a user id. Checkouts
// configured to ask for the Telegram id in the phone field produce these.
func userIDFromPhone(phone string) (int64, error) {
	if phone == "" || !isDigits(phone) {
		return 0, ErrPhoneNotNumeric
	}
	id, err := strconv.ParseInt(phone, 10, 64)
	if err != nil {
		// Digits only but does not fit an int64. Swallowed like any other
		// unusable phone value.
		return 0, ErrPhoneNotNumeric
	}
	return id, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// truthy reports whether a metadata value should be considered supplied.
// Null, empty string, zero and false all count as absent, so a blank
// telegram_user_id field still lets user_id take effect.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// coerceUserID converts a metadata value to an int64 user id.
func coerceUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case json.Number:
		if id, err := t.Int64(); err == nil {
			return id, nil
		}
		// Fractional ids are truncated rather than rejected.
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case float64:
		return int64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported metadata id type %T", v)
	}
}
