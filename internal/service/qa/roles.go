package qa

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultInstruction is used for any role missing from the table.
const DefaultInstruction = "Explain simply."

const (
	RoleStandardUser            = "standard_user"
	RoleEnvironmentalSpecialist = "environmental_specialist"
	RoleMunicipalManager        = "municipal_manager"
)

// RoleTable is the on-disk shape of roles.yaml.
type RoleTable struct {
	Default string            `yaml:"default"`
	Roles   map[string]string `yaml:"roles"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

func DefaultRoleTable() RoleTable {
	return RoleTable{
		Default: DefaultInstruction,
		Roles: map[string]string{
			RoleStandardUser:            "Explain in simple, accessible language.",
			RoleEnvironmentalSpecialist: "Provide technical details and specific environmental terminology.",
			RoleMunicipalManager:        "Focus on practical actions that can be implemented at municipal level.",
		},
		Aliases: map[string]string{
			"usuário padrão":         RoleStandardUser,
			"especialista ambiental": RoleEnvironmentalSpecialist,
			"gerente municipal":      RoleMunicipalManager,
		},
	}
}

// LoadRoleTable merges path over the defaults. A missing file yields the defaults.
func LoadRoleTable(path string) (RoleTable, error) {
	table := DefaultRoleTable()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return table, nil
	}
	if err != nil {
		return table, fmt.Errorf("read roles: %w", err)
	}

	var file RoleTable
	if err := yaml.Unmarshal(data, &file); err != nil {
		return table, fmt.Errorf("parse roles %s: %w", path, err)
	}

	if file.Default != "" {
		table.Default = file.Default
	}
	for k, v := range file.Roles {
		table.Roles[k] = v
	}
	for k, v := range file.Aliases {
		table.Aliases[k] = v
	}
	return table, nil
}

// MarshalRoleTable renders t as YAML.
func MarshalRoleTable(t RoleTable) ([]byte, error) {
	return yaml.Marshal(t)
}

// RoleAdapter maps a role to its instruction. It never fails:
// unknown roles get the default instruction.
type RoleAdapter struct {
	fallback     string
	instructions map[string]string
}

func NewRoleAdapter(t RoleTable) *RoleAdapter {
	a := &RoleAdapter{
		fallback:     t.Default,
		instructions: make(map[string]string, len(t.Roles)+len(t.Aliases)),
	}
	if a.fallback == "" {
		a.fallback = DefaultInstruction
	}
	for k, v := range t.Roles {
		a.instructions[normalizeRole(k)] = v
	}
	for alias, role := range t.Aliases {
		if v, ok := t.Roles[role]; ok {
			a.instructions[normalizeRole(alias)] = v
		}
	}
	return a
}

func (a *RoleAdapter) InstructionFor(role string) string {
	if v, ok := a.instructions[normalizeRole(role)]; ok {
		return v
	}
	return a.fallback
}

// Known reports whether role has its own instruction.
func (a *RoleAdapter) Known(role string) bool {
	_, ok := a.instructions[normalizeRole(role)]
	return ok
}

// Roles lists every accepted role key, sorted.
func (a *RoleAdapter) Roles() []string {
	keys := make([]string, 0, len(a.instructions))
	for k := range a.instructions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
