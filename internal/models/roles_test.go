package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("readonly")
	require.NoError(t, err)
	assert.Equal(t, RoleReadOnly, role)

	for _, bad := range []string{"", "Admin", "ADMIN", "root", "read-only"} {
		_, err := ParseRole(bad)
		assert.Errorf(t, err, "ParseRole(%q)", bad)
	}
}

func TestDefaultRole(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RoleReadOnly, DefaultRole)
}
