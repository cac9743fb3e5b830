package model

// DependencyManifest is the desired set of mods, in file order.
type DependencyManifest struct {
	Mods []ModDependency `json:"mods"`
}

// Clone returns a copy that can be mutated without affecting m.
func (m DependencyManifest) Clone() DependencyManifest {
	mods := make([]ModDependency, len(m.Mods))
	copy(mods, m.Mods)
	return DependencyManifest{Mods: mods}
}

// SetVersion replaces the version of every entry matching id and reports
// whether any entry matched. An unreadable version is overwritten too. Entry
// order is preserved.
func (m *DependencyManifest) SetVersion(id PackageIdentity, v SemanticVersion) bool {
	found := false
	for i := range m.Mods {
		if m.Mods[i].PackageIdentity == id {
			m.Mods[i].Version = v
			m.Mods[i].RawVersion = ""
			found = true
		}
	}
	return found
}
