package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no JSON object can be recovered from model output.
var ErrNoJSON = errors.New("no valid JSON found in response")

var (
	fencedObjectRe = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	bareObjectRe   = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSONObject recovers a JSON object from free-form model output. It tries,
// in order: the whole text, the first fenced code block, and the span from the
// first '{' to the last '}'.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	candidates := []string{strings.TrimSpace(text)}
	if m := fencedObjectRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := bareObjectRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		raw := []byte(strings.TrimSpace(candidate))
		if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
			continue
		}
		return json.RawMessage(raw), nil
	}

	return nil, ErrNoJSON
}

// DecodeAIResponse extracts the JSON object from text and decodes it into target.
func DecodeAIResponse(text string, target any) error {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}
