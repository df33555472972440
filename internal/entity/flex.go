package entity

import (
	"bytes"
	"encoding/json"
)

// FlexString accepts a JSON string or a bare JSON number. Numbers keep their
// literal token text. Any other JSON value decodes to the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*s = ""
		return nil
	}

	switch c := data[0]; {
	case c == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case c == '-' || (c >= '0' && c <= '9'):
		*s = FlexString(data)
	default:
		*s = ""
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
