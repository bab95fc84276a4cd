// Package jsonutil provides JSON helpers shared by the wire client, the
// report printer, and the interactive console.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeLine encodes v as a single-line JSON message suitable for a
// newline-delimited transport. The result carries no trailing newline.
func EncodeLine(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Pretty formats v with indentation for human-readable output. Values that
// cannot be marshaled fall back to their fmt representation.
func Pretty(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// PrettyString formats a JSON text with indentation, expanding any JSON
// documents embedded as string values. Non-JSON input is returned as is,
// so it is safe to call on arbitrary server output.
func PrettyString(value string) string {
	var jsonData interface{}
	if err := json.Unmarshal([]byte(value), &jsonData); err != nil {
		return value
	}

	expanded := expandNestedJSON(jsonData)

	prettyJSON, err := json.MarshalIndent(expanded, "", "  ")
	if err != nil {
		return value
	}
	return string(prettyJSON)
}

// expandNestedJSON recursively expands JSON strings within the data structure.
// It handles objects, arrays, and string values that contain valid JSON.
func expandNestedJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, val := range v {
			result[key] = expandNestedJSON(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = expandNestedJSON(val)
		}
		return result
	case string:
		if isJSONString(v) {
			var nested interface{}
			if err := json.Unmarshal([]byte(v), &nested); err == nil {
				return expandNestedJSON(nested)
			}
		}
		return v
	default:
		return v
	}
}

// isJSONString checks if a string appears to be a JSON object or array by
// examining its delimiters after trimming whitespace.
func isJSONString(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return false
	}
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

// NormalizeMaps converts map[interface{}]interface{} values produced by
// yaml.v2 into map[string]interface{} so the result can be re-encoded with
// encoding/json. Non-map values pass through unchanged.
func NormalizeMaps(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			result[fmt.Sprintf("%v", k)] = NormalizeMaps(item)
		}
		return result
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			result[k] = NormalizeMaps(item)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = NormalizeMaps(item)
		}
		return result
	default:
		return v
	}
}
