package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeObjectType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ADGROUP", "AD"},
		{"CAMPAIGN", "AD GROUP"},
		{"AD", "AD"},
		{"ADACCOUNT", "ADACCOUNT"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeObjectType(tt.in))
	}
}

func TestFlattenExtraData_FlatObject(t *testing.T) {
	got := FlattenExtraData(json.RawMessage(`{"a":1,"b":2}`))
	require.Equal(t, "a: 1, b: 2", got)
}

func TestFlattenExtraData_NestedObject(t *testing.T) {
	got := FlattenExtraData(json.RawMessage(`{"a":{"x":1,"y":2}}`))
	require.Equal(t, "a.x: 1, a.y: 2", got)
}

func TestFlattenExtraData_Idempotent(t *testing.T) {
	// Formatting an already-flat payload twice must not change the output.
	first := FlattenExtraData(json.RawMessage(`{"a":1,"b":2}`))
	second := FlattenExtraData(json.RawMessage(`{"a":1,"b":2}`))
	require.Equal(t, first, second)
}

func TestFlattenExtraData_StringWrappedObject(t *testing.T) {
	// The API often returns extra_data as a string containing object text.
	got := FlattenExtraData(json.RawMessage(`"{\"new_value\":200,\"old_value\":100}"`))
	require.Equal(t, "new_value: 200, old_value: 100", got)
}

func TestFlattenExtraData_InvalidJSONString(t *testing.T) {
	got := FlattenExtraData(json.RawMessage(`"not json {"`))
	require.Equal(t, "not json {", got)
}

func TestFlattenExtraData_EmptyAndNull(t *testing.T) {
	require.Equal(t, "", FlattenExtraData(nil))
	require.Equal(t, "", FlattenExtraData(json.RawMessage(`null`)))
}

func TestFlattenExtraData_MixedValues(t *testing.T) {
	got := FlattenExtraData(json.RawMessage(`{"budget":{"new":250.5,"old":100},"status":"ACTIVE"}`))
	require.Equal(t, "budget.new: 250.5, budget.old: 100, status: ACTIVE", got)
}

func TestExtraObjectID(t *testing.T) {
	require.Equal(t, "AS1", extraObjectID(json.RawMessage(`{"object_id":"AS1"}`)))
	require.Equal(t, "123", extraObjectID(json.RawMessage(`{"object_id":123}`)))
	require.Equal(t, "AS1", extraObjectID(json.RawMessage(`"{\"object_id\":\"AS1\"}"`)))
	require.Equal(t, "", extraObjectID(json.RawMessage(`{"other":"x"}`)))
	require.Equal(t, "", extraObjectID(json.RawMessage(`"plain text"`)))
	require.Equal(t, "", extraObjectID(nil))
}

func TestParseEventTime(t *testing.T) {
	got := parseEventTime("2025-03-01T10:00:00+0000")
	require.Equal(t, int64(1740823200), got.Unix())

	require.True(t, parseEventTime("").IsZero())
	require.True(t, parseEventTime("garbage").IsZero())
}
