package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "agent", "vendor"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, role.String())
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("Admin")
	assert.Error(t, err, "roles are case sensitive")
}

func TestParsePropertyStatus(t *testing.T) {
	for _, s := range []string{"New", "Cancelled", "Invoiced", "Paid"} {
		status, err := ParsePropertyStatus(s)
		require.NoError(t, err)
		assert.Equal(t, PropertyStatus(s), status)
	}

	_, err := ParsePropertyStatus("Done")
	assert.Error(t, err)
}
