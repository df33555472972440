package modules

import (
	"encoding/json"
	"regexp"
	"strings"
)

type encoding int

const (
	encodingNone encoding = iota
	encodingList
	encodingListObject
	encodingSummary
	encodingCommaString
)

var (
	listKeys    = []string{"items", "modules", "selection", "modulDipilih", "modul"}
	summaryKeys = []string{"summary", "modulSummary"}

	moreTailRe = regexp.MustCompile(`\s*\+\s*\d+\b.*$`)
)

// sideChannelDecoder is one historical encoding of the module list. ok is
// false when the value is not in that encoding.
type sideChannelDecoder struct {
	kind   encoding
	decode func(v any) (names []string, ok bool)
}

var sideChannelDecoders = []sideChannelDecoder{
	{kind: encodingList, decode: decodeList},
	{kind: encodingListObject, decode: decodeListObject},
	{kind: encodingSummary, decode: decodeSummary},
	{kind: encodingCommaString, decode: decodeCommaString},
}

// decodeSideChannel unwraps the field (it usually arrives as a JSON document
// inside a JSON string) and returns the names from the first decoder that
// recognises it.
func decodeSideChannel(raw json.RawMessage) ([]string, encoding) {
	v, ok := unwrap(raw)
	if !ok {
		return nil, encodingNone
	}
	for _, d := range sideChannelDecoders {
		if names, ok := d.decode(v); ok && len(clean(names)) > 0 {
			return names, d.kind
		}
	}
	return nil, encodingNone
}

func unwrap(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	s, isString := v.(string)
	if !isString {
		return v, v != nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var inner any
	if err := json.Unmarshal([]byte(s), &inner); err == nil {
		switch inner.(type) {
		case []any, map[string]any:
			return inner, true
		}
	}
	return s, true
}

func decodeList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return extractAll(list, sideChannelName), true
}

func decodeListObject(v any) ([]string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range listKeys {
		if list, ok := obj[key].([]any); ok {
			return extractAll(list, sideChannelName), true
		}
	}
	return nil, false
}

// decodeSummary reads "a, b, c +N more". Names hidden behind the +N tail are
// not recoverable and are dropped.
func decodeSummary(v any) ([]string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range summaryKeys {
		if summary, ok := obj[key].(string); ok {
			return splitNames(moreTailRe.ReplaceAllString(summary, "")), true
		}
	}
	return nil, false
}

func decodeCommaString(v any) ([]string, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return splitNames(s), true
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
