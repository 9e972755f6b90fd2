package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMostRecentFriday verifies the weekly cutover boundary.
func TestMostRecentFriday(t *testing.T) {
	tests := []struct {
		name string
		asOf time.Time
		want time.Time
	}{
		{
			name: "monday rolls back to last friday",
			asOf: time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "friday is its own cutover",
			asOf: time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC),
			want: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday uses the day before",
			asOf: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "thursday rolls back almost a week",
			asOf: time.Date(2026, 2, 26, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MostRecentFriday(tt.asOf))
		})
	}
}
