package answer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/agenthands/medwise/internal/core/model"
)

type candidate struct {
	text    string
	numeric bool
}

// Grounded reports whether answer mentions at least one string or number
// found in rows, including the properties of returned nodes, relationships
// and paths. Numbers must appear as whole numbers, so 1 does not match "1st"
// or "10". Non-empty rows without any such value cannot ground an answer.
func Grounded(answer string, rows []model.Row) bool {
	if len(rows) == 0 {
		return true
	}

	var candidates []candidate
	for _, row := range rows {
		for _, v := range row {
			candidates = collect(candidates, v)
		}
	}

	lower := strings.ToLower(answer)
	for _, c := range candidates {
		if c.numeric {
			if containsNumber(lower, c.text) {
				return true
			}
			continue
		}
		if strings.Contains(lower, c.text) {
			return true
		}
	}
	return false
}

func collect(out []candidate, v any) []candidate {
	switch t := v.(type) {
	case string:
		if s := strings.ToLower(strings.TrimSpace(t)); len(s) >= 2 {
			out = append(out, candidate{text: s})
		}
	case float64:
		out = numbers(out, strconv.FormatFloat(t, 'f', -1, 64), fmt.Sprintf("%.2f", t))
	case float32:
		out = numbers(out, strconv.FormatFloat(float64(t), 'f', -1, 32), fmt.Sprintf("%.2f", t))
	case int64:
		out = numbers(out, strconv.FormatInt(t, 10))
	case int:
		out = numbers(out, strconv.Itoa(t))
	case []any:
		for _, item := range t {
			out = collect(out, item)
		}
	case map[string]any:
		for _, item := range t {
			out = collect(out, item)
		}
	case dbtype.Node:
		out = collect(out, t.Props)
	case *dbtype.Node:
		if t != nil {
			out = collect(out, t.Props)
		}
	case dbtype.Relationship:
		out = collect(out, t.Props)
	case *dbtype.Relationship:
		if t != nil {
			out = collect(out, t.Props)
		}
	case dbtype.Path:
		for _, n := range t.Nodes {
			out = collect(out, n.Props)
		}
		for _, r := range t.Relationships {
			out = collect(out, r.Props)
		}
	}
	return out
}

func numbers(out []candidate, forms ...string) []candidate {
	for _, f := range forms {
		out = append(out, candidate{text: f, numeric: true})
	}
	return out
}

// containsNumber reports whether num occurs in text with no digit, letter or
// decimal point directly before it and no digit or letter directly after it.
func containsNumber(text, num string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], num)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(num)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !(isWord(before) || before == '.')) && (end == len(text) || !isWord(after)) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
