package wrappers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// lineNumber accepts 12, "12", "12-14" and "~12"; anything else decodes to 0
// so the aggregator can default it.
type lineNumber int

func (l *lineNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = 0
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.TrimLeft(strings.TrimSpace(s), "~")
	if i := strings.IndexAny(s, "-:,"); i > 0 {
		s = s[:i]
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*l = lineNumber(f)
		return nil
	}
	*l = 0
	return nil
}
