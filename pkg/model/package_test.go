package model

import (
	"encoding/json"
	"testing"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageIdentity_String(t *testing.T) {
	id := PackageIdentity{Author: "ValheimModding", Name: "Jotunn"}
	assert.Equal(t, "ValheimModding-Jotunn", id.String())
}

func TestPackageIdentity_Validate(t *testing.T) {
	tests := []struct {
		name      string
		id        PackageIdentity
		expectErr string
	}{
		{name: "valid", id: PackageIdentity{Author: "denikson", Name: "BepInExPack_Valheim"}},
		{name: "empty author", id: PackageIdentity{Name: "Jotunn"}, expectErr: "author cannot be empty"},
		{name: "empty name", id: PackageIdentity{Author: "ValheimModding"}, expectErr: "package cannot be empty"},
		{name: "path separator", id: PackageIdentity{Author: "a/b", Name: "c"}, expectErr: "not a valid path segment"},
		{name: "dot dot", id: PackageIdentity{Author: "x", Name: ".."}, expectErr: "not a valid path segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestModDependency_JSONShape(t *testing.T) {
	m := DependencyManifest{Mods: []ModDependency{
		{PackageIdentity: PackageIdentity{Author: "ValheimModding", Name: "Jotunn"}, Version: SemanticVersion{2, 20, 1}},
	}}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"mods":[{"author":"ValheimModding","package":"Jotunn","version":"2.20.1"}]}`, string(data))

	var decoded DependencyManifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestDependencyManifest_SetVersion(t *testing.T) {
	jotunn := PackageIdentity{Author: "ValheimModding", Name: "Jotunn"}
	bepinex := PackageIdentity{Author: "denikson", Name: "BepInExPack_Valheim"}
	m := DependencyManifest{Mods: []ModDependency{
		{PackageIdentity: bepinex, Version: MustParseVersion("5.4.2200")},
		{PackageIdentity: jotunn, Version: MustParseVersion("2.20.0")},
	}}
	original := m.Clone()

	assert.True(t, m.SetVersion(jotunn, MustParseVersion("2.21.0")))
	assert.False(t, m.SetVersion(PackageIdentity{Author: "nobody", Name: "nothing"}, MustParseVersion("1.0.0")))

	assert.Equal(t, "2.21.0", m.Mods[2].Version.String())
	assert.Equal(t, bepinex, m.Mods[0].Identity(), "order must be preserved")
	assert.Equal(t, "2.20.0", original.Mods[2].Version.String(), "clone must not share storage")
}

func TestParseBaselineMode(t *testing.T) {
	mode, err := ParseBaselineMode("declared")
	require.NoError(t, err)
	assert.Equal(t, BaselineDeclared, mode)

	mode, err = ParseBaselineMode("installed")
	require.NoError(t, err)
	assert.Equal(t, BaselineInstalled, mode)

	_, err = ParseBaselineMode("latest")
	assert.Error(t, err)
}

func TestUpgradePlan_Empty(t *testing.T) {
	plan := UpgradePlan{Upgrades: []RegistryPackage{{Identity: PackageIdentity{Author: "a", Name: "b"}}}}
	assert.False(t, plan.Empty())
	assert.True(t, UpgradePlan{Current: plan.Upgrades}.Empty())
}

func TestModDependency_MalformedVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		raw     string
	}{
		{name: "two components", version: `"1.0"`, raw: `"1.0"`},
		{name: "empty", version: `""`, raw: `""`},
		{name: "number", version: `1`, raw: `1`},
		{name: "null", version: `null`, raw: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"author":"Azumatt","package":"AzuCraftyBoxes","version":` + tt.version + `}`

			var d ModDependency
			require.NoError(t, json.Unmarshal([]byte(input), &d))
			assert.Equal(t, PackageIdentity{Author: "Azumatt", Name: "AzuCraftyBoxes"}, d.Identity())
			assert.True(t, d.Version.IsZero())
			assert.Equal(t, tt.raw, d.DeclaredVersion())
			assert.ErrorIs(t, d.VersionErr(), errors.ErrParse)

			data, err := json.Marshal(d)
			require.NoError(t, err)
			assert.Equal(t, input, string(data), "unreadable versions are written back as found")
		})
	}
}

func TestModDependency_MissingVersion(t *testing.T) {
	var d ModDependency
	require.NoError(t, json.Unmarshal([]byte(`{"author":"Azumatt","package":"AzuCraftyBoxes"}`), &d))
	assert.ErrorIs(t, d.VersionErr(), errors.ErrParse)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"author":"Azumatt","package":"AzuCraftyBoxes","version":null}`, string(data))
}

func TestManifest_OneBadEntryKeepsTheRest(t *testing.T) {
	input := `{"mods":[{"author":"A","package":"good","version":"1.0.0"},{"author":"B","package":"bad","version":"1.0"}]}`

	var m DependencyManifest
	require.NoError(t, json.Unmarshal([]byte(input), &m))
	require.Len(t, m.Mods, 2)
	assert.NoError(t, m.Mods[0].VersionErr())
	assert.Equal(t, "1.0.0", m.Mods[0].Version.String())
	assert.Error(t, m.Mods[1].VersionErr())

	assert.True(t, m.SetVersion(m.Mods[1].Identity(), MustParseVersion("1.1.0")))
	assert.NoError(t, m.Mods[1].VersionErr())
	assert.Equal(t, "1.1.0", m.Mods[1].DeclaredVersion())
}
