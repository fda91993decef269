package ingest

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// element is a generic XML node. Draw.io files put the interesting cells at
// varying depths, so the whole document is read before it is classified.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     strings.Builder
}

func (e *element) attr(name string) optional {
	v, ok := e.attrs[name]
	return optional{Value: v, Set: ok}
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// readTree decodes r into an element tree. Any decoder error, including
// unterminated tags and invalid UTF-8, is returned as a *ParseError.
func readTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: errors.New("multiple root elements")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	if len(stack) != 0 {
		return nil, &ParseError{Err: errors.Errorf("unterminated element <%s>", stack[len(stack)-1].name)}
	}
	return root, nil
}
