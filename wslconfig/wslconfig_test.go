package wslconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBasic(t *testing.T) {
	text := `
datatypes = ["Currency", "Timestamp"]

[write]
inline_schema = true

[mysql]
dsn = "user:pass@tcp(127.0.0.1:3306)/wsl"
table_prefix = "wsl_"
dry_run = true
`
	cfg, err := Load(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, []string{"Currency", "Timestamp"}, cfg.Datatypes)
	assert.True(t, cfg.InlineSchema)
	assert.Equal(t, "user:pass@tcp(127.0.0.1:3306)/wsl", cfg.MySQLExport.DSN)
	assert.Equal(t, "wsl_", cfg.MySQLExport.TablePrefix)
	assert.True(t, cfg.MySQLExport.DryRun)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Datatypes)
	assert.False(t, cfg.InlineSchema)
	assert.Equal(t, "", cfg.MySQLExport.DSN)
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(strings.NewReader("not = [valid"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/to/config.toml")
	assert.Error(t, err)
}
