// Package defs loads matter tuning data from TOML config, implementing the
// voxelcore.MatterDefs collaborator the mesher and pathfinder consume to
// interpret a Voxel's MatterID.
package defs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/voxelcore"
)

// MatterDef describes one matter id's rendering and physical properties.
type MatterDef struct {
	Name         string `toml:"name"`
	Opaque       bool   `toml:"opaque"`
	Solid        bool   `toml:"solid"`
	FaceTextures [6]int `toml:"face_textures"`
}

// matterTable is the on-disk shape of assets/defs/matter.toml: a list under
// the top-level "matter" key, index 0 reserved for the out-of-range
// fallback (named "void" in the default table).
type matterTable struct {
	Matter []MatterDef `toml:"matter"`
}

// defaultMatterTable is written to disk the first time no config file is
// found, mirroring init_load_or_default's "load or write the default"
// behavior.
func defaultMatterTable() matterTable {
	return matterTable{Matter: []MatterDef{
		{Name: "void"},
		{Name: "stone", Opaque: true, Solid: true, FaceTextures: [6]int{1, 1, 1, 1, 1, 1}},
		{Name: "dirt", Opaque: true, Solid: true, FaceTextures: [6]int{2, 2, 2, 2, 2, 2}},
		{Name: "water", Opaque: false, Solid: false, FaceTextures: [6]int{3, 3, 3, 3, 3, 3}},
	}}
}

// Defs holds every loaded matter definition, implementing
// voxelcore.MatterDefs.
type Defs struct {
	matter []MatterDef
}

var _ voxelcore.MatterDefs = (*Defs)(nil)

// LoadOrDefault reads assets/defs/matter.toml under dir. If the file does
// not exist, it writes a default table to that path and returns it.
func LoadOrDefault(dir string) (*Defs, error) {
	path := filepath.Join(dir, "assets", "defs", "matter.toml")

	var table matterTable
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &table); err != nil {
			return nil, fmt.Errorf("defs: decode %s: %w", path, err)
		}
	} else if os.IsNotExist(err) {
		table = defaultMatterTable()
		if err := writeTable(path, table); err != nil {
			return nil, fmt.Errorf("defs: write default %s: %w", path, err)
		}
	} else {
		return nil, fmt.Errorf("defs: stat %s: %w", path, err)
	}

	if len(table.Matter) == 0 {
		table.Matter = []MatterDef{{Name: "void"}}
	}
	return &Defs{matter: table.Matter}, nil
}

func writeTable(path string, table matterTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(table)
}

// MatterByID returns the definition for id, clamping out-of-range ids to
// index 0 per the core's "never fail on bad input" contract (§7).
func (d *Defs) MatterByID(id uint8) MatterDef {
	if int(id) >= len(d.matter) {
		return d.matter[0]
	}
	return d.matter[id]
}

// IsOpaque implements voxelcore.MatterDefs.
func (d *Defs) IsOpaque(matterID uint8) bool { return d.MatterByID(matterID).Opaque }

// IsSolid implements voxelcore.MatterDefs.
func (d *Defs) IsSolid(matterID uint8) bool { return d.MatterByID(matterID).Solid }

// FaceTextureID implements voxelcore.MatterDefs.
func (d *Defs) FaceTextureID(matterID uint8, face voxelcore.GridDirection) int {
	return d.MatterByID(matterID).FaceTextures[face]
}
