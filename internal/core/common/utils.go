package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text, and
// repairs malformed JSON (unescaped quotes, trailing commas) before giving up.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	jsonStr := response[start:]
	if end > start {
		jsonStr = response[start : end+1]
	}

	var result T
	err := json.Unmarshal([]byte(jsonStr), &result)
	if err == nil {
		return result, nil
	}
	if _, ok := err.(*json.SyntaxError); !ok {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	fixed, repairErr := jsonrepair.JSONRepair(jsonStr)
	if repairErr != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}
	if err := json.Unmarshal([]byte(fixed), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal repaired JSON: %w\nData: %s", err, fixed)
	}
	return result, nil
}

// StripCodeFence returns the body of the first fenced code block in s, or s
// trimmed when there is none.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "```")
	if open == -1 {
		return s
	}
	body := s[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		// Drop the info string, e.g. ```cypher
		if info := strings.TrimSpace(body[:nl]); !strings.ContainsAny(info, " ({") {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
