package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuests_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Guests
	}{
		{"number", `4`, 4},
		{"numeric string", `"4"`, 4},
		{"padded string", `" 6 "`, 6},
		{"fraction truncated", `2.7`, 2},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"blank string", `"  "`, 0},
		{"negative", `-3`, -3},
		{"negative string", `"-1"`, -1},
		{"int32 max", `2147483647`, 2147483647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Guests(7)
			require.NoError(t, json.Unmarshal([]byte(tt.json), &g))
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestGuests_UnmarshalJSON_Rejects(t *testing.T) {
	for _, raw := range []string{`"patru"`, `"NaN"`, `"Inf"`, `"-Infinity"`, `1e20`, `"1e20"`, `2147483648`, `-2147483649`, `true`} {
		t.Run(raw, func(t *testing.T) {
			var g Guests
			assert.Error(t, json.Unmarshal([]byte(raw), &g))
		})
	}
}

func TestInquiryRequest_GuestsField(t *testing.T) {
	var req InquiryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ion Popescu","guests":null}`), &req))
	assert.Equal(t, Guests(0), req.Guests)

	err := json.Unmarshal([]byte(`{"name":"Ion Popescu","guests":1e20}`), &req)
	assert.ErrorContains(t, err, "out of range")
}
