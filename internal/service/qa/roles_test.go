package qa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAdapter_InstructionFor(t *testing.T) {
	a := NewRoleAdapter(DefaultRoleTable())

	tests := []struct {
		role string
		want string
	}{
		{"standard_user", "Explain in simple, accessible language."},
		{"  Environmental_Specialist ", "Provide technical details and specific environmental terminology."},
		{"municipal_manager", "Focus on practical actions that can be implemented at municipal level."},
		{"Usuário Padrão", "Explain in simple, accessible language."},
		{"especialista ambiental", "Provide technical details and specific environmental terminology."},
		{"gerente municipal", "Focus on practical actions that can be implemented at municipal level."},
		{"astronaut", DefaultInstruction},
		{"", DefaultInstruction},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, a.InstructionFor(tt.role))
		})
	}
}

func TestRoleAdapter_Roles(t *testing.T) {
	a := NewRoleAdapter(DefaultRoleTable())
	roles := a.Roles()

	assert.Contains(t, roles, "standard_user")
	assert.Contains(t, roles, "gerente municipal")
	assert.IsIncreasing(t, roles)
	assert.True(t, a.Known("MUNICIPAL_MANAGER"))
	assert.False(t, a.Known("astronaut"))
}

func TestLoadRoleTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		table, err := LoadRoleTable(filepath.Join(dir, "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultRoleTable(), table)
	})

	t.Run("override and extend", func(t *testing.T) {
		path := filepath.Join(dir, "roles.yaml")
		content := `default: Keep it short.
roles:
  farmer: Focus on crops and water.
  standard_user: Use plain words.
aliases:
  agricultor: farmer
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		table, err := LoadRoleTable(path)
		require.NoError(t, err)

		a := NewRoleAdapter(table)
		assert.Equal(t, "Focus on crops and water.", a.InstructionFor("agricultor"))
		assert.Equal(t, "Use plain words.", a.InstructionFor("standard_user"))
		assert.Equal(t, "Use plain words.", a.InstructionFor("usuário padrão"))
		assert.Equal(t, "Keep it short.", a.InstructionFor("unknown"))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roles: [a, b"), 0644))
		_, err := LoadRoleTable(path)
		require.Error(t, err)
	})
}

func TestMarshalRoleTable_RoundTrip(t *testing.T) {
	data, err := MarshalRoleTable(DefaultRoleTable())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	table, err := LoadRoleTable(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRoleTable(), table)
}
