package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("chef@bistrot.fr"))
	assert.True(t, IsValidEmail("prenom.nom+tag@example.co.uk"))
	assert.False(t, IsValidEmail("chef@bistrot"))
	assert.False(t, IsValidEmail("pas-un-email"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("12345678"))
	assert.False(t, IsValidPassword("1234567"))
	assert.False(t, IsValidPassword(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Le Petit Bistrot", SanitizeString("  Le Petit Bistrot  "))
	assert.Equal(t, "", SanitizeString("   "))
}
