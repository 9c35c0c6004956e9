package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/focus_mon/internal/match"
)

// AliasFile is the on-disk format for user-defined application aliases:
//
//	aliases:
//	  chrome: google chrome
//	  idea: intellij idea
type AliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliasTable returns the built-in alias table extended with entries
// from the YAML file at path. A missing file yields the built-ins alone;
// a malformed file is an error.
func LoadAliasTable(path string) (*match.AliasTable, error) {
	table := match.NewAliasTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var f AliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}

	for alias, canonical := range f.Aliases {
		table.Register(alias, canonical)
	}
	return table, nil
}
