package mysqlexport

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/schema"
	"github.com/wsl-format/wsl/wsldb"
)

func mustCompile(t *testing.T, text string) *schema.Schema {
	t.Helper()
	sch, err := schema.Compile([]byte(text), nil)
	require.NoError(t, err)
	return sch
}

func TestGenerateDDLColumnMapping(t *testing.T) {
	sch := mustCompile(t, ""+
		"DOMAIN Name Atom\n"+
		"DOMAIN Bio String\n"+
		"DOMAIN Age Integer\n"+
		"DOMAIN Sex Enum male female\n"+
		"DOMAIN Addr IPv4\n"+
		"TABLE Person Name Bio Age Sex Addr\n")

	exp := NewExporter(Options{DryRun: true})
	stmts, err := exp.GenerateDDL(sch)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	ddl := stmts[0]
	assert.Contains(t, ddl, "CREATE TABLE `Person`")
	assert.Contains(t, ddl, "VARCHAR(255)")
	assert.Contains(t, ddl, "TEXT")
	assert.Contains(t, ddl, "BIGINT UNSIGNED")
	assert.Contains(t, ddl, "ENUM('male', 'female')")
	assert.Contains(t, ddl, "VARCHAR(15)")
}

func TestGenerateDDLUniqueKey(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\nKEY T x *\n")
	exp := NewExporter(Options{DryRun: true})
	stmts, err := exp.GenerateDDL(sch)
	require.NoError(t, err)
	assert.Contains(t, stmts[0], "UNIQUE KEY")
}

func TestGenerateDDLForeignKey(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE A P\nTABLE B P\nREFERENCE B x => A x\n")
	exp := NewExporter(Options{DryRun: true})
	stmts, err := exp.GenerateDDL(sch)
	require.NoError(t, err)
	require.Len(t, stmts, 3) // CREATE TABLE A, CREATE TABLE B, ALTER TABLE ... FOREIGN KEY
	assert.Contains(t, stmts[2], "ALTER TABLE `B` ADD FOREIGN KEY")
	assert.Contains(t, stmts[2], "REFERENCES `A`")
}

func TestGenerateInserts(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\n")
	db := &wsldb.Database{
		Schema: sch,
		Tables: map[string][]wsldb.Row{
			"T": {{"alice", "bob"}},
		},
	}
	exp := NewExporter(Options{DryRun: true})
	stmts := exp.GenerateInserts(db)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "INSERT INTO `T`")
	assert.Contains(t, stmts[0], "'alice'")
	assert.Contains(t, stmts[0], "'bob'")
}

func TestExportDryRunWritesToOut(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P\n")
	db := &wsldb.Database{
		Schema: sch,
		Tables: map[string][]wsldb.Row{"T": {{"alice"}}},
	}

	var buf bytes.Buffer
	exp := NewExporter(Options{DryRun: true, Out: &buf})
	require.NoError(t, exp.Connect(context.Background()))
	require.NoError(t, exp.Export(context.Background(), db))
	require.NoError(t, exp.Close())

	assert.Contains(t, buf.String(), "CREATE TABLE `T`")
	assert.Contains(t, buf.String(), "INSERT INTO `T`")
}

func TestExtensionDatatypeHasNoColumnMapping(t *testing.T) {
	// Without registering an extension factory, Compile itself rejects the
	// unknown datatype name, so this exercises columnDDL's error path
	// directly against a stand-in that satisfies datatype.Datatype but
	// reports no BuiltinName.
	_, err := columnDDL("Money", stubDatatype{})
	assert.Error(t, err)
}

type stubDatatype struct{}

func (stubDatatype) SyntaxKind() datatype.SyntaxKind               { return datatype.SyntaxAtom }
func (stubDatatype) Decode(data []byte, pos int) (any, int, error) { return nil, pos, nil }
func (stubDatatype) Encode(value any) ([]byte, error)              { return nil, nil }
