package tokens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseJSON builds a Tree from a JSON token document with the same rules as
// ParseYAML. The document is read as a token stream so object keys keep
// their document order.
func ParseJSON(data []byte) (*Tree, error) {
	doc, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token document: %w", err)
	}
	return buildTree(doc)
}

// jsonReader turns a JSON token stream into yaml.Node values
type jsonReader struct {
	dec  *json.Decoder
	data []byte
}

func decodeJSON(data []byte) (*yaml.Node, error) {
	r := &jsonReader{dec: json.NewDecoder(bytes.NewReader(data)), data: data}
	r.dec.UseNumber()

	doc := &yaml.Node{Kind: yaml.DocumentNode, Line: 1, Column: 1}
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	root, err := r.node(tok)
	if err != nil {
		return nil, err
	}
	if _, err := r.dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("line %d: unexpected data after the document", r.line())
	}

	doc.Content = []*yaml.Node{root}
	return doc, nil
}

// line is the line of the decoder's current position
func (r *jsonReader) line() int {
	offset := min(int(r.dec.InputOffset()), len(r.data))
	return 1 + bytes.Count(r.data[:offset], []byte("\n"))
}

func (r *jsonReader) node(tok json.Token) (*yaml.Node, error) {
	line := r.line()

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
			for r.dec.More() {
				keyTok, err := r.dec.Token()
				if err != nil {
					return nil, err
				}
				key := scalarNode("!!str", keyTok.(string), r.line())

				valueTok, err := r.dec.Token()
				if err != nil {
					return nil, err
				}
				value, err := r.node(valueTok)
				if err != nil {
					return nil, err
				}
				m.Content = append(m.Content, key, value)
			}
			return m, r.closing()

		case '[':
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
			for r.dec.More() {
				itemTok, err := r.dec.Token()
				if err != nil {
					return nil, err
				}
				item, err := r.node(itemTok)
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, item)
			}
			return seq, r.closing()
		}
		return nil, fmt.Errorf("line %d: unexpected %q", line, t)

	case string:
		return scalarNode("!!str", t, line), nil
	case json.Number:
		return scalarNode(numberTag(t.String()), t.String(), line), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(t), line), nil
	case nil:
		return scalarNode("!!null", "null", line), nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %v", line, tok)
}

// closing consumes the '}' or ']' that ends the current object or array
func (r *jsonReader) closing() error {
	_, err := r.dec.Token()
	return err
}

func scalarNode(tag, value string, line int) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: line}
	if tag == "!!str" {
		// quoted, so the value is never re-read as a bool or number
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// numberTag keeps integers that fit in an int64 as ints, like the YAML path
func numberTag(s string) string {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return "!!int"
	}
	return "!!float"
}
