package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvisory(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		a, err := NewAdvisory("smartship", "Pickup suspended in Pune", SeverityWarning, 3600)
		require.NoError(t, err)
		assert.Equal(t, "smartship", a.CarrierID)
		assert.Equal(t, SeverityWarning, a.Severity)
		assert.False(t, a.CreatedAt.IsZero())
	})

	t.Run("InvalidSeverity", func(t *testing.T) {
		_, err := NewAdvisory("smartship", "msg", "LOUD", 0)
		assert.ErrorIs(t, err, ErrInvalidSeverity)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		_, err := NewAdvisory("smartship", "", SeverityInfo, 0)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})
}
