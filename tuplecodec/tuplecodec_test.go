package tuplecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsl-format/wsl/schema"
)

func mustCompile(t *testing.T, text string) *schema.Schema {
	t.Helper()
	sch, err := schema.Compile([]byte(text), nil)
	require.NoError(t, err)
	return sch
}

func TestDecodeAtomColumn(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\n")
	rel, row, err := Decode([]byte("T alice bob"), sch)
	require.NoError(t, err)
	assert.Equal(t, "T", rel)
	assert.Equal(t, []any{"alice", "bob"}, row)
}

func TestDecodeStringColumn(t *testing.T) {
	sch := mustCompile(t, "DOMAIN S String\nTABLE T S\n")
	rel, row, err := Decode([]byte("T [hello world]"), sch)
	require.NoError(t, err)
	assert.Equal(t, "T", rel)
	assert.Equal(t, []any{"hello world"}, row)
}

func TestDecodeUnknownRelation(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P\n")
	_, _, err := Decode([]byte("Nope x"), sch)
	assert.Error(t, err)
}

func TestDecodeTrailingGarbageFails(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P\n")
	_, _, err := Decode([]byte("T alice extra"), sch)
	assert.Error(t, err)
}

func TestDecodeUnterminatedBracketFails(t *testing.T) {
	sch := mustCompile(t, "DOMAIN S String\nTABLE T S\n")
	_, _, err := Decode([]byte("T [hello"), sch)
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nDOMAIN S String\nTABLE T P S\n")
	row := []any{"alice", "hello world"}
	line, err := Encode("T", row, sch)
	require.NoError(t, err)
	assert.Equal(t, "T alice [hello world]\n", string(line))

	rel, decoded, err := Decode(line[:len(line)-1], sch)
	require.NoError(t, err)
	assert.Equal(t, "T", rel)
	assert.Equal(t, row, decoded)
}

func TestEncodeArityMismatch(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P P\n")
	_, err := Encode("T", []any{"alice"}, sch)
	assert.Error(t, err)
}

func TestEncodeUnknownRelation(t *testing.T) {
	sch := mustCompile(t, "DOMAIN P Atom\nTABLE T P\n")
	_, err := Encode("Nope", []any{"x"}, sch)
	assert.Error(t, err)
}
