package memento

import (
	"bufio"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ja-he/workbench/internal/fault"
)

// EncodingKey is the reserved attribute marking a base64 encoded text
// payload.
const EncodingKey = "IMemento.internal.encoding"

const base64Encoding = "base64"

// Write serializes the tree rooted at m as an XML document to w.
//
// The document is written without indentation so that text payloads
// round-trip byte for byte. Text XML can not carry (control characters,
// invalid UTF-8, whitespace-only text next to children) is written base64
// encoded. Such attribute values or types yield a *fault.PersistenceError.
func Write(w io.Writer, m *Memento) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return fmt.Errorf("could not write document header (%w)", err)
	}
	enc := xml.NewEncoder(bw)
	if err := encodeNode(enc, m); err != nil {
		return fault.Persistence("write", m.typ, err)
	}
	if err := enc.Flush(); err != nil {
		return fault.Persistence("write", m.typ, err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("could not terminate document (%w)", err)
	}
	return bw.Flush()
}

func encodeNode(enc *xml.Encoder, m *Memento) error {
	if !isXMLText(m.typ) {
		return fmt.Errorf("type %q can not be written", m.typ)
	}
	start := xml.StartElement{Name: xml.Name{Local: m.typ}}
	for _, key := range m.keys {
		if key == EncodingKey {
			continue
		}
		if !isXMLText(key) || !isXMLText(m.attrs[key]) {
			return fmt.Errorf("attribute %q of '%s' can not be written", key, m.typ)
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: key}, Value: m.attrs[key]})
	}
	text := ""
	if m.hasText {
		text = m.text
	}
	encoded := text != "" && (!isXMLText(text) || (len(m.children) > 0 && strings.TrimSpace(text) == ""))
	if encoded {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: EncodingKey}, Value: base64Encoding})
		text = base64.StdEncoding.EncodeToString([]byte(text))
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, child := range m.children {
		if err := encodeNode(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// isXMLText reports whether s is valid UTF-8 made of characters XML 1.0
// documents may contain.
func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// Read parses an XML document from r and returns its root element as a
// memento tree.
//
// Any syntax error, an empty document or trailing elements after the root
// yield a *fault.PersistenceError and no tree.
func Read(r io.Reader) (*Memento, error) {
	dec := xml.NewDecoder(r)

	var root *Memento
	stack := []*Memento{}
	texts := []*strings.Builder{}
	encoded := []bool{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fault.Persistence("read", "", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fault.Persistence("read", t.Name.Local, fmt.Errorf("more than one root element"))
			}
			node := New(qualifiedName(t.Name))
			isEncoded := false
			for _, attr := range t.Attr {
				if name := qualifiedName(attr.Name); name == EncodingKey {
					if attr.Value != base64Encoding {
						return nil, fault.Persistence("read", node.typ, fmt.Errorf("unknown text encoding '%s'", attr.Value))
					}
					isEncoded = true
				} else {
					node.set(name, attr.Value)
				}
			}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})
			encoded = append(encoded, isEncoded)

		case xml.EndElement:
			node := stack[len(stack)-1]
			text := texts[len(texts)-1].String()
			if encoded[len(encoded)-1] {
				decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
				if err != nil {
					return nil, fault.Persistence("read", node.typ, fmt.Errorf("malformed encoded text (%w)", err))
				}
				node.PutTextData(string(decoded))
			} else if text != "" && !(len(node.children) > 0 && strings.TrimSpace(text) == "") {
				// indentation of hand-edited documents is not a payload
				node.PutTextData(text)
			}
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
			encoded = encoded[:len(encoded)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fault.Persistence("read", "", fmt.Errorf("text outside of root element"))
				}
				continue
			}
			texts[len(texts)-1].Write(t)
		}
	}

	if root == nil {
		return nil, fault.Persistence("read", "", fmt.Errorf("document has no root element"))
	}
	if len(stack) != 0 {
		return nil, fault.Persistence("read", root.typ, fmt.Errorf("unterminated element '%s'", stack[len(stack)-1].typ))
	}
	return root, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
