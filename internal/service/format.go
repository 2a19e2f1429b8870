package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// NormalizeObjectType relabels Graph object types for the sheet. The ADGROUP/AD
// and CAMPAIGN/AD GROUP pairs reproduce the upstream naming quirk verbatim and
// must not be "fixed". Anything else, including empty input, passes through.
func NormalizeObjectType(objectType string) string {
	switch objectType {
	case "ADGROUP":
		return "AD"
	case "CAMPAIGN":
		return "AD GROUP"
	default:
		return objectType
	}
}

// FlattenExtraData renders an extra_data payload as one display string.
// Top-level scalars become "key: value", one nested level becomes
// "key.subkey: value", entries are comma-joined. Payloads that are not JSON
// objects pass through as-is; this never fails. Keys are emitted in sorted
// order since JSON object order is not observable here.
func FlattenExtraData(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	obj, ok := decodeObject(trimmed)
	if !ok {
		// extra_data is frequently a JSON string wrapping object text.
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return string(trimmed)
		}
		if obj, ok = decodeObject([]byte(inner)); !ok {
			return inner
		}
	}

	var parts []string
	for _, key := range sortedKeys(obj) {
		switch val := obj[key].(type) {
		case map[string]interface{}:
			for _, sub := range sortedKeys(val) {
				parts = append(parts, fmt.Sprintf("%s.%s: %v", key, sub, val[sub]))
			}
		default:
			parts = append(parts, fmt.Sprintf("%s: %v", key, val))
		}
	}
	return strings.Join(parts, ", ")
}

// decodeObject parses b as a JSON object, keeping numbers verbatim.
func decodeObject(b []byte) (map[string]interface{}, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, false
	}
	return m, true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extraObjectID pulls a nested object_id out of the extra_data payload. Some
// events report changes against a child object there rather than in the
// event's own object_id.
func extraObjectID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	obj, ok := decodeObject(trimmed)
	if !ok {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return ""
		}
		if obj, ok = decodeObject([]byte(inner)); !ok {
			return ""
		}
	}
	switch id := obj["object_id"].(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
