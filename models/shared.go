package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number or null and keeps its text form.
// The backend is inconsistent about ids and codes.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(strings.Trim(string(b), `"`))
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexBool accepts true/false, 1/0 and "1"/"0"/"true"/"false"/"yes"/"no".
// Null or an unknown value decodes to false.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	raw := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch raw {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// FlexInt accepts a JSON number or a numeric string. Anything else decodes to 0.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*n = FlexInt(v)
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = FlexInt(int(v))
		return nil
	}
	*n = 0
	return nil
}
