package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "object wrapped in markdown fences",
			text: "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "object surrounded by prose",
			text: `Sure! Here is the result: {"a": 1} Hope that helps.`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "nested objects span first to last brace",
			text: `{"a": {"b": 2}}`,
			want: `{"a": {"b": 2}}`,
			ok:   true,
		},
		{
			name: "no object at all",
			text: "not json",
			ok:   false,
		},
		{
			name: "empty string",
			text: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	assert.Equal(t, 42.5, asFloat(42.5))
	assert.Equal(t, 42.0, asFloat("42"))
	assert.Equal(t, 42.5, asFloat(" 42.5 "))
	assert.Equal(t, 0.0, asFloat("not a number"))
	assert.Equal(t, 0.0, asFloat(nil))
	assert.Equal(t, 0.0, asFloat([]any{1}))
	assert.Equal(t, 0.0, asFloat(map[string]any{}))
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name string
		v    any
		lo   int
		hi   int
		want int
	}{
		{"within range", 85.0, 0, 100, 85},
		{"above range", 150.0, 0, 100, 100},
		{"below range", -10.0, 0, 100, 0},
		{"rounds half up", 49.5, 0, 100, 50},
		{"numeric string", "72", 0, 100, 72},
		{"non-numeric becomes zero then clamped", "high", 0, 100, 0},
		{"non-numeric with positive floor", nil, 1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampInt(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, 0.8, clampFloat(0.8, 0, 1))
	assert.Equal(t, 1.0, clampFloat(3.5, 0, 1))
	assert.Equal(t, 0.0, clampFloat(-0.2, 0, 1))
	assert.Equal(t, 0.0, clampFloat("confident", 0, 1))
}

func TestStringList(t *testing.T) {
	in := []any{"a", 2, "b", "", "  c  ", "d", "e", "f"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, stringList(in, 5))
	assert.Empty(t, stringList(nil, 5))
}

func TestOptString(t *testing.T) {
	assert.Nil(t, optString(nil))
	assert.Nil(t, optString(""))
	assert.Nil(t, optString("   "))
	assert.Nil(t, optString("null"))
	assert.Nil(t, optString("Unknown"))
	assert.Nil(t, optString(12))

	got := optString("  VP of Sales ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "VP of Sales", *got)
	}
}
