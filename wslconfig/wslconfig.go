// Package wslconfig reads the wsl CLI's TOML configuration file: which
// extension datatype names a host process intends to register, default
// inline-schema-on-write behavior, and the default MySQL export target.
package wslconfig

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// configFile is the top-level TOML document.
type configFile struct {
	Datatypes []string       `toml:"datatypes"`
	Write     tomlWrite      `toml:"write"`
	MySQL     tomlMySQLExport `toml:"mysql"`
}

type tomlWrite struct {
	InlineSchema bool `toml:"inline_schema"`
}

type tomlMySQLExport struct {
	DSN          string `toml:"dsn"`
	TablePrefix  string `toml:"table_prefix"`
	DryRun       bool   `toml:"dry_run"`
}

// Config is the resolved configuration a caller acts on.
type Config struct {
	// Datatypes names extension datatypes the host process intends to
	// register with datatype.Registry.Register. This list is purely
	// informational: the registry contract does not load code from a
	// config file, so the caller must still register each factory in Go.
	Datatypes []string

	// InlineSchema is the default for wsldb.WriteOptions.InlineSchema
	// when a caller does not override it on the command line.
	InlineSchema bool

	// MySQLExport carries the default MySQL export target used by the
	// mysqlexport package and the "wsl export-mysql" CLI command.
	MySQLExport MySQLExportConfig
}

// MySQLExportConfig is the [mysql] table.
type MySQLExportConfig struct {
	DSN         string
	TablePrefix string
	DryRun      bool
}

// LoadFile opens path and parses it as a wsl config file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wslconfig: open file %q: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads TOML content from r and returns the resolved Config.
func Load(r io.Reader) (*Config, error) {
	var cf configFile
	if _, err := toml.NewDecoder(r).Decode(&cf); err != nil {
		return nil, fmt.Errorf("wslconfig: decode error: %w", err)
	}

	cfg := &Config{
		Datatypes:    cf.Datatypes,
		InlineSchema: cf.Write.InlineSchema,
		MySQLExport: MySQLExportConfig{
			DSN:         cf.MySQL.DSN,
			TablePrefix: cf.MySQL.TablePrefix,
			DryRun:      cf.MySQL.DryRun,
		},
	}
	return cfg, nil
}
