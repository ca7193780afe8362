package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{name: "empty query matches everything", query: "", fields: []string{"x"}, want: true},
		{name: "space is not trimmed", query: " ", fields: []string{"Sara"}, want: false},
		{name: "space matches a full name", query: " ", fields: []string{"Ahmad Ali"}, want: true},
		{name: "surrounding space is kept", query: "ahmad ", fields: []string{"Ahmad"}, want: false},
		{name: "case insensitive", query: "ahmad", fields: []string{"Ahmad Ali"}, want: true},
		{name: "upper query lower field", query: "AHMAD", fields: []string{"ahmad"}, want: true},
		{name: "second field", query: "0555", fields: []string{"Omar", "+966 0555 123"}, want: true},
		{name: "substring in middle", query: "med", fields: []string{"Mohammed"}, want: true},
		{name: "no match", query: "khalid", fields: []string{"Ahmad", "0555"}, want: false},
		{name: "no fields", query: "a", fields: nil, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.query, tc.fields...))
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	in := []int{5, 2, 8, 3, 6}
	out := Filter(in, func(v int) bool { return v > 3 })
	assert.Equal(t, []int{5, 8, 6}, out)
	assert.Len(t, in, 5)
}

func TestIsAll(t *testing.T) {
	assert.True(t, IsAll(""))
	assert.True(t, IsAll("ALL"))
	assert.True(t, IsAll("all"))
	assert.False(t, IsAll("NEW"))
}
