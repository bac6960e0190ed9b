package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotScalar is returned by cells holding a mapping or sequence instead of text.
var ErrNotScalar = errors.New("cell is not a scalar")

// nodeCell is a cell backed by a YAML node.
type nodeCell struct {
	node *yaml.Node
}

func (c nodeCell) Text() (string, error) {
	switch c.node.Kind {
	case yaml.ScalarNode:
		if c.node.Tag == "!!null" {
			return "", nil
		}
		return c.node.Value, nil
	case yaml.AliasNode:
		return nodeCell{node: c.node.Alias}.Text()
	default:
		return "", fmt.Errorf("%w (line %d)", ErrNotScalar, c.node.Line)
	}
}

// ReadYAMLFile reads a YAML (or JSON) document holding a sequence of rows.
func ReadYAMLFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ReadYAML(bytes.NewReader(data))
}

// ReadYAML parses a sequence of sequences. Each inner sequence is one row.
func ReadYAML(r io.Reader) ([]Row, error) {
	var doc yaml.Node
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse yaml: expected a sequence of rows (line %d)", root.Line)
	}

	rows := make([]Row, 0, len(root.Content))
	for i, rowNode := range root.Content {
		if rowNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("parse yaml: row %d is not a sequence (line %d)", i+1, rowNode.Line)
		}
		row := make(Row, 0, len(rowNode.Content))
		for _, cellNode := range rowNode.Content {
			row = append(row, nodeCell{node: cellNode})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
