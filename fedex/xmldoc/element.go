// Package xmldoc is an ordered XML element tree.
// Requests are built as trees and serialized separately, replies are parsed
// back into the same tree and converted to generic mappings.
package xmldoc

import (
	"encoding/xml"
	"io"
	"strconv"
)

// Attr is an element attribute, Name is written verbatim (e.g. "xmlns:soapenv").
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the tree.
// Sibling order is preserved on output.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates element with children, nil children are skipped.
func New(name string, children ...*Element) *Element {
	e := &Element{Name: name}
	return e.Add(children...)
}

// Text creates a leaf element.
func Text(name, value string) *Element {
	return &Element{Name: name, Text: value}
}

// Add appends children, nil children are skipped.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// AddText appends a leaf element.
func (e *Element) AddText(name, value string) *Element {
	return e.Add(Text(name, value))
}

// AddNonEmpty appends a leaf element if value is not empty.
func (e *Element) AddNonEmpty(name, value string) *Element {
	if value == "" {
		return e
	}
	return e.AddText(name, value)
}

// AddInt appends a leaf element holding decimal v.
func (e *Element) AddInt(name string, v int) *Element {
	return e.AddText(name, strconv.Itoa(v))
}

// SetAttr sets (or replaces) attribute.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Child returns first child named name or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all children named name in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var res []*Element
	for _, c := range e.Children {
		if c.Name == name {
			res = append(res, c)
		}
	}
	return res
}

// Names returns children names in document order.
func (e *Element) Names() []string {
	res := make([]string, 0, len(e.Children))
	for _, c := range e.Children {
		res = append(res, c.Name)
	}
	return res
}

// Path follows the chain of first children named by names.
func (e *Element) Path(names ...string) *Element {
	cur := e
	for _, n := range names {
		cur = cur.Child(n)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Encode writes e to w (no xml header).
func (e *Element) Encode(w io.Writer) error {
	enc := xml.NewEncoder(w)
	if err := e.encode(enc); err != nil {
		return err
	}
	return enc.Flush()
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Map converts children of e into a generic mapping.
// Leaf children become strings, repeated names become []interface{},
// key (if not nil) renames every key.
func (e *Element) Map(key func(string) string) map[string]interface{} {
	res := make(map[string]interface{}, len(e.Children))
	for _, c := range e.Children {
		k := c.Name
		if key != nil {
			k = key(k)
		}
		var v interface{}
		if len(c.Children) == 0 {
			v = c.Text
		} else {
			v = c.Map(key)
		}
		prev, ok := res[k]
		if !ok {
			res[k] = v
			continue
		}
		if list, ok := prev.([]interface{}); ok {
			res[k] = append(list, v)
		} else {
			res[k] = []interface{}{prev, v}
		}
	}
	return res
}
