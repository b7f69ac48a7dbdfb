package procedure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

func TestBuilder_ParentOfAndWalkOrder(t *testing.T) {
	b := NewBuilder("demo")
	wait := b.Wait(10)
	msg := b.Message("hi")
	seq := b.Sequence(wait, msg)
	tree := b.Build(seq)

	assert.Equal(t, []uint32{seq, wait, msg}, tree.Walk())

	parent, ok := tree.ParentOf(wait)
	require.True(t, ok)
	assert.Equal(t, seq, parent)

	_, ok = tree.ParentOf(seq)
	assert.False(t, ok)
}

func TestParse_DecodesSequenceAndWorkspace(t *testing.T) {
	const doc = `<Procedure name="demo">
  <Workspace>
    <Variable name="x" type="int64" value="7"/>
  </Workspace>
  <Sequence>
    <Wait timeoutMillis="5"/>
    <Message text="hello"/>
    <Copy from="x" to="y"/>
    <Input variable="x" description="enter a number"/>
  </Sequence>
</Procedure>`

	tree, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "demo", tree.Name)
	require.Len(t, tree.Variables, 1)
	assert.Equal(t, "x", tree.Variables[0].Name)
	n, ok := tree.Variables[0].Value.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(7), n)

	root, ok := tree.At(tree.Root)
	require.True(t, ok)
	assert.Equal(t, KindSequence, root.Kind)
	require.Len(t, root.Children, 4)

	wait, _ := tree.At(root.Children[0])
	assert.Equal(t, KindWait, wait.Kind)
	assert.Equal(t, int64(5), wait.TimeoutMillis)

	msg, _ := tree.At(root.Children[1])
	assert.Equal(t, "hello", msg.Text)

	cp, _ := tree.At(root.Children[2])
	assert.Equal(t, "x", cp.From)
	assert.Equal(t, "y", cp.To)

	in, _ := tree.At(root.Children[3])
	assert.Equal(t, "x", in.Variable)
	assert.Equal(t, "enter a number", in.Description)
}

func TestParse_UnknownInstructionErrors(t *testing.T) {
	const doc = `<Procedure name="bad"><Bogus/></Procedure>`
	_, err := Parse(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestParseVariableValue_AllKinds(t *testing.T) {
	cases := []struct {
		kind, raw string
	}{
		{"bool", "true"},
		{"int64", "-3"},
		{"uint64", "3"},
		{"float64", "1.5"},
		{"string", "hi"},
		{"", ""},
	}
	for _, c := range cases {
		v, err := parseVariableValue(c.kind, c.raw)
		require.NoError(t, err)
		if c.kind == "" {
			assert.True(t, v.IsEmpty())
		}
	}
}

func newFixtureTree() *Tree {
	b := NewBuilder("fixture")
	b.Variable("x", model.NewInt64(0))
	wait := b.Wait(1)
	seq := b.Sequence(wait)
	return b.Build(seq)
}

func TestFixtureTree_InstructionCount(t *testing.T) {
	tree := newFixtureTree()
	assert.EqualValues(t, 2, tree.InstructionCount())
}
