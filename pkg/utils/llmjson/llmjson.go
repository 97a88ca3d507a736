// Package llmjson extracts and decodes JSON objects embedded in LLM replies.
package llmjson

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrParse is returned when a reply does not contain a decodable JSON object
var ErrParse = errors.New("failed to parse LLM response")

// maxLoggedReply bounds how much of a reply is attached to an error
const maxLoggedReply = 2048

// StripCodeFence removes a surrounding markdown code fence (```json or ```)
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			lang := strings.TrimSpace(s[:nl])
			if lang == "" || !strings.ContainsAny(lang, "{[\"") {
				s = s[nl+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced {...} in text, ignoring braces
// inside string literals
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// Decode locates the JSON object in an LLM reply and unmarshals it into v.
// Any failure is reported as ErrParse.
func Decode(reply string, v any) error {
	body, ok := ExtractObject(StripCodeFence(reply))
	if !ok {
		return goerr.Wrap(ErrParse, "no JSON object in reply", goerr.V("reply", truncate(reply)))
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return goerr.Wrap(ErrParse, err.Error(), goerr.V("reply", truncate(reply)))
	}
	return nil
}

// Missing returns an ErrParse naming a required key absent from the reply
func Missing(key string, index int) error {
	return goerr.Wrap(ErrParse, "required key is missing", goerr.V("key", key), goerr.V("index", index))
}

func truncate(s string) string {
	if len(s) <= maxLoggedReply {
		return s
	}
	return s[:maxLoggedReply] + "..."
}
