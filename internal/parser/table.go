package parser

import (
	"errors"
	"fmt"
	"strings"

	"mcq-generator/internal/domain"

	"github.com/tidwall/gjson"
)

// ChoiceSeparator joins the "letter-> text" pairs of one question.
const ChoiceSeparator = " || "

var ErrNotAnObject = errors.New("quiz payload is not a JSON object")

// BuildTable flattens the quiz into one row per entry, in payload order.
// Missing question, options or correct fields become empty strings. The
// whole operation fails if the payload, an entry, or an entry's options
// are not JSON objects.
func BuildTable(q ParsedQuiz) ([]domain.TableRow, error) {
	root := q.result()
	if !root.IsObject() {
		return nil, ErrNotAnObject
	}

	entries := members(root)
	rows := make([]domain.TableRow, 0, len(entries))
	for _, e := range entries {
		row, err := buildRow(e.value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.key, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRow(entry gjson.Result) (domain.TableRow, error) {
	if !entry.IsObject() {
		return domain.TableRow{}, errors.New("entry is not an object")
	}

	choices, err := joinChoices(entry.Get("options"))
	if err != nil {
		return domain.TableRow{}, err
	}

	return domain.TableRow{
		MCQ:     fieldString(entry.Get("mcq")),
		Choices: choices,
		Correct: fieldString(entry.Get("correct")),
	}, nil
}

func joinChoices(options gjson.Result) (string, error) {
	if !options.Exists() || options.Type == gjson.Null {
		return "", nil
	}
	if !options.IsObject() {
		return "", errors.New("options is not an object")
	}

	var parts []string
	for _, m := range members(options) {
		parts = append(parts, fmt.Sprintf("%s-> %s", m.key, fieldString(m.value)))
	}
	return strings.Join(parts, ChoiceSeparator), nil
}

// fieldString renders scalars as text and keeps nested values as raw JSON.
func fieldString(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.IsObject() || v.IsArray() {
		return v.Raw
	}
	return v.String()
}
