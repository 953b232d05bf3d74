package entities

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// ParseDocument validates an opaque JSON payload and returns it as a column
// value. Empty input means "no document" and yields nil; malformed input is
// an ErrInvalidJSON.
func ParseDocument(raw []byte) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %.60s", ErrInvalidJSON, raw)
	}
	return datatypes.JSON(raw), nil
}

// EmptyDocument is the initial value for structure slots.
func EmptyDocument() datatypes.JSON {
	return datatypes.JSON("{}")
}
