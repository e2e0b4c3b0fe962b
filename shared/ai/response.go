package ai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedResponse is returned when model output cannot be decoded.
var ErrMalformedResponse = errors.New("malformed model response")

// DecodeJSON decodes model output into v. See DecodeObject.
func DecodeJSON(response string, v any) error {
	_, err := DecodeObject(response, v)
	return err
}

// DecodeObject decodes model output that must be a single JSON object into v
// and returns its raw members, so callers can tell a missing key from an
// explicit null. Code fences are stripped first. Output that is not valid
// JSON is retried with the outermost {...} span, then a sanitized copy of it.
func DecodeObject(response string, v any) (map[string]json.RawMessage, error) {
	text := StripFences(response)
	if json.Valid([]byte(text)) {
		fields, err := decodeObject(text, v)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedResponse, "%v", err)
		}
		return fields, nil
	}

	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, errors.Wrapf(ErrMalformedResponse, "no JSON object in %q", truncate(text, 200))
	}

	jsonStr := text[startIdx : endIdx+1]
	fields, err := decodeObject(jsonStr, v)
	if err == nil {
		return fields, nil
	}
	fields, sanitizedErr := decodeObject(sanitizeJSON(jsonStr), v)
	if sanitizedErr != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "%v (sanitized version also failed: %v)", err, sanitizedErr)
	}
	return fields, nil
}

func decodeObject(text string, v any) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("top-level value is null, not an object")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return nil, err
	}
	return fields, nil
}

// RejectNulls fails when any of keys is present with an explicit null value.
// Absent keys are left to the caller's defaults.
func RejectNulls(fields map[string]json.RawMessage, keys ...string) error {
	for _, key := range keys {
		raw, ok := fields[key]
		if ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return errors.Wrapf(ErrMalformedResponse, "%s is null", key)
		}
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sanitizeJSON escapes stray quotes inside one-line string values, the most
// common defect in model-written JSON.
func sanitizeJSON(jsonStr string) string {
	lines := strings.Split(jsonStr, "\n")
	var sanitizedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx != -1 && strings.Contains(line, "\"") {
			beforeColon := line[:colonIdx+1]
			afterColon := strings.TrimSpace(line[colonIdx+1:])

			if strings.HasPrefix(afterColon, "\"") {
				lastQuoteIdx := strings.LastIndex(afterColon, "\"")
				if lastQuoteIdx > 0 {
					content := afterColon[1:lastQuoteIdx]
					content = strings.ReplaceAll(content, `\"`, `"`)
					content = strings.ReplaceAll(content, `"`, `\"`)
					remainder := afterColon[lastQuoteIdx+1:]
					line = beforeColon + " \"" + content + "\"" + remainder
				}
			}
		}

		sanitizedLines = append(sanitizedLines, line)
	}

	return strings.Join(sanitizedLines, "\n")
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}

// TruncateRunes returns at most n characters of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
