package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_NaNIsAbsent(t *testing.T) {
	assert.True(t, Number(math.NaN()).IsAbsent())
	assert.True(t, Number(math.Inf(1)).IsAbsent())
	assert.False(t, Number(0).IsAbsent())
}

func TestValue_Accessors(t *testing.T) {
	n := Number(12.5)
	f, ok := n.Float()
	require.True(t, ok)
	assert.Equal(t, 12.5, f)
	_, ok = n.Str()
	assert.False(t, ok)

	s := String("Technology")
	_, ok = s.Float()
	assert.False(t, ok, "strings never convert to numbers")
	str, ok := s.Str()
	require.True(t, ok)
	assert.Equal(t, "Technology", str)

	var zero Value
	assert.True(t, zero.IsAbsent())
	assert.Nil(t, zero.Interface())
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"absent", Absent(), false},
		{"zero", Number(0), false},
		{"negative", Number(-1.5), true},
		{"empty string", String(""), false},
		{"string", String("N/A"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Truthy())
		})
	}
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, Number(3), ValueOf(int64(3)))
	assert.Equal(t, Number(2.5), ValueOf(float32(2.5)))
	assert.Equal(t, Number(7), ValueOf(json.Number("7")))
	assert.Equal(t, String("x"), ValueOf("x"))
	assert.True(t, ValueOf(nil).IsAbsent())
	assert.True(t, ValueOf(true).IsAbsent())
	assert.True(t, ValueOf(map[string]interface{}{"raw": 1}).IsAbsent())
}

func TestValue_JSON(t *testing.T) {
	m := map[string]Value{
		"price":  Number(189.5),
		"sector": String("Technology"),
		"beta":   Absent(),
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":189.5,"sector":"Technology","beta":null}`, string(data))

	var decoded map[string]Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Number(189.5), decoded["price"])
	assert.Equal(t, String("Technology"), decoded["sector"])
	assert.True(t, decoded["beta"].IsAbsent())
}
