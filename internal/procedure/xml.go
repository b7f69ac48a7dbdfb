package procedure

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

// The wire format of procedure files is explicitly out of scope (see
// SPEC_FULL.md §6.3): this is a minimal, internal XML schema invented
// purely to exercise runner.LocalRunner end to end, not a port of the
// underlying engine's real procedure format.
//
//	<Procedure name="...">
//	  <Workspace>
//	    <Variable name="x" type="int64" value="0"/>
//	  </Workspace>
//	  <Sequence>
//	    <Wait timeoutMillis="100"/>
//	    <Message text="hello"/>
//	    <Copy from="x" to="y"/>
//	    <Input variable="x" description="enter a number"/>
//	    <Sequence>...</Sequence>
//	  </Sequence>
//	</Procedure>
type xmlProcedure struct {
	XMLName   xml.Name      `xml:"Procedure"`
	Name      string        `xml:"name,attr"`
	Workspace xmlWorkspace  `xml:"Workspace"`
	Body      xmlNode       `xml:",any"`
}

type xmlWorkspace struct {
	Variables []xmlVariable `xml:"Variable"`
}

type xmlVariable struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// xmlNode captures one instruction element generically: its tag name
// gives the instruction Kind, its attributes carry scalar fields, and its
// nested elements (of the same generic shape) become Children.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

func (n xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse decodes a Tree from r using the schema documented above.
func Parse(r io.Reader) (*Tree, error) {
	var doc xmlProcedure
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("procedure: decode: %w", err)
	}

	b := NewBuilder(doc.Name)
	for _, v := range doc.Workspace.Variables {
		value, err := parseVariableValue(v.Type, v.Value)
		if err != nil {
			return nil, fmt.Errorf("procedure: variable %q: %w", v.Name, err)
		}
		b.Variable(v.Name, value)
	}

	root, err := buildNode(b, doc.Body)
	if err != nil {
		return nil, err
	}
	return b.Build(root), nil
}

func buildNode(b *Builder, n xmlNode) (uint32, error) {
	switch n.XMLName.Local {
	case "Sequence":
		children := make([]uint32, 0, len(n.Children))
		for _, c := range n.Children {
			idx, err := buildNode(b, c)
			if err != nil {
				return 0, err
			}
			children = append(children, idx)
		}
		return b.Sequence(children...), nil
	case "Wait":
		raw, _ := n.attr("timeoutMillis")
		ms, err := strconv.ParseInt(raw, 10, 64)
		if raw != "" && err != nil {
			return 0, fmt.Errorf("procedure: Wait timeoutMillis: %w", err)
		}
		return b.Wait(ms), nil
	case "Message":
		text, _ := n.attr("text")
		return b.Message(text), nil
	case "Copy":
		from, _ := n.attr("from")
		to, _ := n.attr("to")
		return b.Copy(from, to), nil
	case "Input":
		variable, _ := n.attr("variable")
		description, _ := n.attr("description")
		return b.Input(variable, description), nil
	default:
		return 0, fmt.Errorf("procedure: unknown instruction element %q", n.XMLName.Local)
	}
}

func parseVariableValue(kind, raw string) (model.AnyValue, error) {
	switch strings.ToLower(kind) {
	case "", "empty":
		return model.AnyValue{}, nil
	case "bool":
		v, err := strconv.ParseBool(raw)
		return model.NewBool(v), err
	case "int64", "int":
		v, err := strconv.ParseInt(raw, 10, 64)
		return model.NewInt64(v), err
	case "uint64", "uint":
		v, err := strconv.ParseUint(raw, 10, 64)
		return model.NewUint64(v), err
	case "float64", "float":
		v, err := strconv.ParseFloat(raw, 64)
		return model.NewFloat64(v), err
	case "string":
		return model.NewString(raw), nil
	default:
		return model.AnyValue{}, fmt.Errorf("unsupported variable type %q", kind)
	}
}

// LoadDir recursively discovers every *.xml file under dir and parses it
// into a Tree, preserving the underlying engine loader's ".xml extension,
// recursive directory discovery" behavior. LoadDir stops at the first
// file that fails to open or parse, returning an error that names it.
func LoadDir(dir string) ([]*Tree, error) {
	var trees []*Tree
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("procedure: open %s: %w", path, err)
		}
		defer f.Close()

		tree, err := Parse(f)
		if err != nil {
			return fmt.Errorf("procedure: parse %s: %w", path, err)
		}
		trees = append(trees, tree)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trees, nil
}
