// Package parser builds the quiz response example sent to the model and
// turns the model's loosely structured reply into table rows.
package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// schemaQuestion is one entry of the Quiz Response Schema. Field order is
// the order the model sees.
type schemaQuestion struct {
	MCQ     string            `json:"mcq"`
	Options map[string]string `json:"options"`
	Correct string            `json:"correct"`
}

var placeholderQuestion = schemaQuestion{
	MCQ: "multiple choice question",
	Options: map[string]string{
		"a": "choice here",
		"b": "choice here",
		"c": "choice here",
		"d": "choice here",
	},
	Correct: "correct answer",
}

// ResponseSchemaExample returns the JSON example for n questions keyed "1".."n"
// in numeric order. encoding/json sorts map keys, which would put "10" before
// "2", so the outer object is written by hand.
func ResponseSchemaExample(n int) (string, error) {
	entry, err := json.Marshal(placeholderQuestion)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 1; i <= n; i++ {
		if i > 1 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteString(": ")
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}
