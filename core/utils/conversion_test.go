package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "abc", "abc"},
		{"Bytes", []byte("xyz"), "xyz"},
		{"Int", int64(42), "42"},
		{"Bool", true, "true"},
		{"WholeFloat", 3.0, "3"},
		{"Float", 2.5, "2.5"},
		{"Date", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02"},
		{"DateTime", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02 03:04:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToStrings(t *testing.T) {
	assert.Equal(t, []string{"1", "", "a"}, ToStrings([]any{1, nil, "a"}))
	assert.Empty(t, ToStrings(nil))
}
