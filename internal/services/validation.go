package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// notBlank rejects strings that are empty after trimming.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// validJSON accepts empty input or well formed JSON.
var validJSON = validation.By(func(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	}
	if len(raw) == 0 || json.Valid(raw) {
		return nil
	}
	return errors.New("must be valid JSON")
})

// jsonArrayOrEmpty renders an absent or empty JSON array as "[]".
func jsonArrayOrEmpty(raw json.RawMessage) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return []byte("[]")
	}
	return raw
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// decodeLabel accepts only the JSON integers 0, 1 and 2.
func decodeLabel(raw json.RawMessage) (models.Label, bool) {
	if isNull(raw) {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	l := models.Label(n)
	return l, l.Valid()
}

var labelRule = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if _, ok := decodeLabel(raw); !ok {
		return errors.New("must be 0, 1 or 2")
	}
	return nil
})

// filterLabel is looser than labelRule: numeric strings are cast the way a
// document store casts query values.
func filterLabel(raw json.RawMessage) (models.Label, bool) {
	if l, ok := decodeLabel(raw); ok {
		return l, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	l := models.Label(n)
	return l, l.Valid()
}

var filterLabelRule = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if _, ok := filterLabel(raw); !ok {
		return errors.New("must be 0, 1 or 2")
	}
	return nil
})

// decodeLabelFilter returns the requested labels. Anything other than a JSON
// array means no filter.
func decodeLabelFilter(raw json.RawMessage) ([]models.Label, error) {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, nil
	}
	if err := validation.Validate(items, validation.Each(filterLabelRule)); err != nil {
		return nil, err
	}
	labels := make([]models.Label, len(items))
	for i, item := range items {
		labels[i], _ = filterLabel(item)
	}
	return labels, nil
}

// pageNumber reads a page field like parseInt: numbers are truncated, strings
// contribute their leading integer and anything else is zero.
func pageNumber(raw json.RawMessage) int {
	var v any
	if isNull(raw) || json.Unmarshal(raw, &v) != nil {
		return 0
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.Abs(x) > math.MaxInt32 {
			return 0
		}
		return int(x)
	case string:
		return leadingInt(strings.TrimSpace(x))
	}
	return 0
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' && end-start < 9 {
		end++
	}
	if end == start {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

var jsonString = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) == nil {
		return nil
	}
	return errors.New("must be a string")
})

var jsonBool = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	var b bool
	if isNull(raw) || json.Unmarshal(raw, &b) == nil {
		return nil
	}
	return errors.New("must be a boolean")
})

// rawString and rawBool read values already checked by jsonString and jsonBool.
func rawString(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func rawBool(raw json.RawMessage) bool {
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}
