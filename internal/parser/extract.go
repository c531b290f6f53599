package parser

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParsedQuiz is the quiz payload decoded from model output. It keeps the
// raw JSON so entries can be walked in the order the model emitted them.
type ParsedQuiz struct {
	raw string
}

// NewParsedQuiz wraps an already valid JSON document.
func NewParsedQuiz(raw string) ParsedQuiz {
	return ParsedQuiz{raw: raw}
}

// Raw returns the JSON text of the payload.
func (q ParsedQuiz) Raw() string {
	return q.raw
}

// Len returns the number of distinct top-level entries, or 0 if the payload
// is not an object.
func (q ParsedQuiz) Len() int {
	return len(members(q.result()))
}

// Keys returns the distinct top-level keys in payload order.
func (q ParsedQuiz) Keys() []string {
	var keys []string
	for _, m := range members(q.result()) {
		keys = append(keys, m.key)
	}
	return keys
}

func (q ParsedQuiz) result() gjson.Result {
	return gjson.Parse(q.raw)
}

type member struct {
	key   string
	value gjson.Result
}

// members lists the fields of a JSON object, or nothing for any other value.
// A repeated key stays at the position it first appeared with the value it
// was given last.
func members(obj gjson.Result) []member {
	if !obj.IsObject() {
		return nil
	}
	var out []member
	index := make(map[string]int)
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if i, seen := index[k]; seen {
			out[i].value = value
			return true
		}
		index[k] = len(out)
		out = append(out, member{key: k, value: value})
		return true
	})
	return out
}

// ExtractQuiz isolates the JSON object between the first '{' and the last
// '}' of the model output and decodes it. The boolean is false when no
// braces are present or the slice between them is not valid JSON; a failed
// parse is an expected outcome, not an error.
func ExtractQuiz(output string) (ParsedQuiz, bool) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return ParsedQuiz{}, false
	}

	candidate := output[start : end+1]
	if !gjson.Valid(candidate) {
		return ParsedQuiz{}, false
	}
	return ParsedQuiz{raw: candidate}, true
}
