package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

var ErrMalformedPayload = errors.New("malformed shape payload")

// wrapperKeys hold the descriptor list when the payload is an object.
var wrapperKeys = []string{"shapes", "commands", "components", "elements", "objects", "items", "drawing"}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

// StripCodeFence removes a markdown code fence around a payload, if any.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
	}
	return strings.TrimSpace(text)
}

// ParsePayload turns the generation service's text into descriptors. It
// accepts a bare array, an object wrapping the array, logical objects with
// nested components, or a single descriptor. Tolerated problems are logged.
func ParsePayload(text string) ([]RawDescriptor, error) {
	descriptors, warnings, err := ParsePayloadWithWarnings(text)
	for _, w := range warnings {
		log.Printf("payload: %s", w)
	}
	return descriptors, err
}

// ParsePayloadWithWarnings is ParsePayload that returns what it skipped:
// text after the first JSON value and list items that are not objects.
func ParsePayloadWithWarnings(text string) ([]RawDescriptor, []string, error) {
	body := StripCodeFence(text)
	if body == "" {
		return nil, nil, fmt.Errorf("%w: empty response", ErrMalformedPayload)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var warnings []string
	if rest := strings.TrimSpace(body[dec.InputOffset():]); rest != "" {
		warnings = append(warnings, fmt.Sprintf("ignoring %d bytes of trailing text", len(rest)))
	}

	descriptors, ok := collect(v, 0, &warnings)
	if !ok {
		return nil, warnings, fmt.Errorf("%w: expected an array of shapes, got %T", ErrMalformedPayload, v)
	}
	return descriptors, warnings, nil
}

const maxNesting = 4

func collect(v interface{}, depth int, warnings *[]string) ([]RawDescriptor, bool) {
	if depth > maxNesting {
		return nil, false
	}

	switch t := v.(type) {
	case []interface{}:
		out := make([]RawDescriptor, 0, len(t))
		for i, item := range t {
			obj, ok := item.(map[string]interface{})
			if !ok {
				*warnings = append(*warnings, fmt.Sprintf("skipping item %d: expected an object, got %T", i, item))
				continue
			}
			if nested, ok := unwrap(obj, depth, warnings); ok {
				out = append(out, nested...)
				continue
			}
			out = append(out, RawDescriptor(obj))
		}
		return out, true

	case map[string]interface{}:
		if nested, ok := unwrap(t, depth, warnings); ok {
			return nested, true
		}
		if isDescriptor(t) {
			return []RawDescriptor{RawDescriptor(t)}, true
		}
	}
	return nil, false
}

// unwrap flattens an object that carries a descriptor list under a wrapper
// key, e.g. a logical object {"type":"house","components":[...]}.
func unwrap(obj map[string]interface{}, depth int, warnings *[]string) ([]RawDescriptor, bool) {
	for _, key := range wrapperKeys {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		switch inner.(type) {
		case []interface{}, map[string]interface{}:
			return collect(inner, depth+1, warnings)
		}
	}
	return nil, false
}

func isDescriptor(obj map[string]interface{}) bool {
	for _, key := range kindKeys {
		if _, ok := obj[key].(string); ok {
			return true
		}
	}
	return false
}
