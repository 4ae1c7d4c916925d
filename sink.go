package hxwidget

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// FormScope reports the form that encloses a container. An empty id means
// the container is not inside a form.
type FormScope interface {
	CurrentFormID() string
}

// Sink receives widget declarations in declaration order.
type Sink interface {
	Enqueue(kind string, el Element)
}

// Container is the element tree position a widget is declared in.
type Container interface {
	FormScope
	Sink
}

// Enqueued is one element handed to a Block.
type Enqueued struct {
	Kind    string
	FormID  string
	Element Element
}

type elementQueue struct {
	items []Enqueued
}

// Block is an in-memory Container. Blocks created with Form share the
// queue of their parent.
type Block struct {
	formID string
	queue  *elementQueue
}

// NewBlock creates a root block outside any form.
func NewBlock() *Block {
	return &Block{queue: &elementQueue{}}
}

// Form returns a child block scoped to the form with the given id.
func (b *Block) Form(id string) *Block {
	return &Block{formID: id, queue: b.queue}
}

// CurrentFormID implements FormScope.
func (b *Block) CurrentFormID() string {
	return b.formID
}

// Enqueue implements Sink.
func (b *Block) Enqueue(kind string, el Element) {
	b.queue.items = append(b.queue.items, Enqueued{Kind: kind, FormID: b.formID, Element: el})
}

// Elements returns the enqueued elements in order.
func (b *Block) Elements() []Enqueued {
	out := make([]Enqueued, len(b.queue.items))
	copy(out, b.queue.items)
	return out
}

// Reset clears the queue, including for blocks sharing it.
func (b *Block) Reset() {
	b.queue.items = nil
}

// Inspect returns a templ component that dumps the queued declarations as
// an HTML table, for debugging pages and test failure output.
func (b *Block) Inspect() templ.Component {
	items := b.Elements()
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<table class="hxwidget-inspect"><tr><th>kind</th><th>id</th><th>form</th><th>default</th><th>value</th></tr>`)
		for _, item := range items {
			sb.WriteString(`<tr><td>`)
			sb.WriteString(html.EscapeString(item.Kind))
			sb.WriteString(`</td><td>`)
			sb.WriteString(html.EscapeString(string(item.Element.ElementID())))
			sb.WriteString(`</td><td>`)
			sb.WriteString(html.EscapeString(item.FormID))
			sb.WriteString(`</td>`)
			if d, ok := item.Element.(*ButtonGroupDeclaration); ok {
				fmt.Fprintf(&sb, `<td>%v</td>`, d.Default)
				if d.SetValue {
					fmt.Fprintf(&sb, `<td>%v</td>`, d.Value)
				} else {
					sb.WriteString(`<td></td>`)
				}
			} else {
				sb.WriteString(`<td></td><td></td>`)
			}
			sb.WriteString(`</tr>`)
		}
		sb.WriteString(`</table>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}
