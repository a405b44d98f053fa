package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/schema"
)

func mustCompile(t *testing.T, text string) *schema.Schema {
	t.Helper()
	sch, err := schema.Compile([]byte(text), nil)
	require.NoError(t, err)
	return sch
}

func TestCheckEmptyWhenNoConstraintsViolated(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P\n")
	db := map[string][]Row{
		"T": {{"alice"}, {"bob"}},
	}
	violations := Check(sch, db)
	assert.Empty(t, violations)
}

func TestCheckDuplicateRowViolatesImplicitKey(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\n")
	db := map[string][]Row{
		"T": {{"alice", "bob"}, {"alice", "bob"}},
	}
	violations := Check(sch, db)
	require.Len(t, violations, 1)
	assert.Equal(t, KindUnique, violations[0].Kind)
	assert.Equal(t, noDuplicateRows, violations[0].Constraint)
	assert.Equal(t, "T alice bob", violations[0].Rendered)
}

func TestCheckRenderedRowUsesDatatypeSurfaceTokens(t *testing.T) {
	sch := mustCompile(t, "DOMAIN S Enum red blue\nDOMAIN A IPv4\nTABLE T S A\n")
	row := Row{datatype.EnumValue{Index: 1, Token: "blue"}, [4]byte{192, 168, 0, 1}}
	db := map[string][]Row{
		"T": {row, row},
	}
	violations := Check(sch, db)
	require.Len(t, violations, 1)
	assert.Equal(t, "T blue 192.168.0.1", violations[0].Rendered)
}

func TestCheckDeclaredKeyViolation(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\nKEY T x *\n")
	db := map[string][]Row{
		"T": {{"alice", "bob"}, {"alice", "carol"}},
	}
	violations := Check(sch, db)
	require.Len(t, violations, 1)
	assert.Equal(t, KindUnique, violations[0].Kind)
}

func TestCheckReferenceSatisfied(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE A P\nTABLE B P\nREFERENCE B x => A x\n")
	db := map[string][]Row{
		"A": {{"alice"}},
		"B": {{"alice"}},
	}
	violations := Check(sch, db)
	assert.Empty(t, violations)
}

func TestCheckReferenceUnsatisfied(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE A P\nTABLE B P\nREFERENCE B x => A x\n")
	db := map[string][]Row{
		"A": {{"alice"}},
		"B": {{"carol"}},
	}
	violations := Check(sch, db)
	require.Len(t, violations, 1)
	assert.Equal(t, KindReferential, violations[0].Kind)
	assert.Equal(t, "B", violations[0].Relation)
}

func TestCheckEmptyTableSatisfiesReference(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE A P\nTABLE B P\nREFERENCE B x => A x\n")
	db := map[string][]Row{
		"A": nil,
		"B": nil,
	}
	violations := Check(sch, db)
	assert.Empty(t, violations)
}
