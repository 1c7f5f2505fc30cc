package ctl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m 0s"},
		{61 * time.Second, "1m 1s"},
		{2*time.Hour + 14*time.Minute + 8*time.Second, "2h 14m 8s"},
		{0, "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in), tt.in)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{52428800, "50.0 MB"},
		{0, "0 B"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in), tt.in)
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3), "wider input stays untouched")
}

func TestTableCellAlignment(t *testing.T) {
	tb := newTable("  ", "Name", "Size")
	tb.alignRight(1)

	assert.Equal(t, "x   ", tb.cell("x", 4, 0))
	assert.Equal(t, "   x", tb.cell("x", 4, 1))
	assert.Equal(t, "toolong", tb.cell("toolong", 4, 1))
}
