package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeLenient unmarshals form payloads that are not always strict JSON
// (trailing commas, single quotes, unquoted keys, comments from hand-edited fixtures).
// Order of attempts:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson
func DecodeLenient(data []byte, v interface{}) error {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return fmt.Errorf("LENIENT_PARSE_FAILED: empty body")
	}

	// Try 1: Standard JSON
	stdErr := json.Unmarshal([]byte(input), v)
	if stdErr == nil {
		return nil
	}

	// Try 2: JSON Repair
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}

	// Try 3: Hjson
	if converted, err := HJSONToJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("LENIENT_PARSE_FAILED: %v", stdErr)
}

// RepairJSON fixes common JSON errors using github.com/RealAlexandreAI/json-repair.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// HJSONToJSON parses Hjson (comments, unquoted keys, optional commas) and returns standard JSON.
func HJSONToJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(out), nil
}
