package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmRequiresAcknowledgment(t *testing.T) {
	g := New()

	assert.False(t, g.Confirm())
	assert.Equal(t, Pending, g.Decision())

	g.Toggle()
	assert.True(t, g.Acknowledged())
	assert.True(t, g.Confirm())
	assert.Equal(t, Confirmed, g.Decision())
}

func TestToggleFlips(t *testing.T) {
	g := New()
	g.Toggle()
	g.Toggle()

	assert.False(t, g.Acknowledged())
	assert.False(t, g.Confirm())
}

func TestCancelAlwaysLegalWhilePending(t *testing.T) {
	g := New()
	g.Cancel()
	assert.Equal(t, Cancelled, g.Decision())

	// A resolved gate is inert.
	g.Toggle()
	assert.False(t, g.Acknowledged())
	assert.False(t, g.Confirm())
	assert.Equal(t, Cancelled, g.Decision())
}

func TestConfirmIsFinal(t *testing.T) {
	g := New()
	g.Toggle()
	g.Confirm()

	g.Cancel()
	assert.Equal(t, Confirmed, g.Decision())
}

func TestCategoriesFixed(t *testing.T) {
	assert.Len(t, Categories, 4)
	assert.NotEmpty(t, Attestation)
}
