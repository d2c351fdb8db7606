// Package view строит HTML как деревья *html.Node. Текст экранируется при html.Render,
// поэтому компоненты никогда не склеивают разметку строками.
package view

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// A собирает атрибуты из пар ключ/значение. Непарный хвост отбрасывается.
func A(kv ...string) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}

// El создаёт элемент. nil-дети пропускаются, фрагменты разворачиваются.
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	Append(n, children...)
	return n
}

// Append добавляет детей к parent по тем же правилам, что и El.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Type == html.DocumentNode {
			for c.FirstChild != nil {
				gc := c.FirstChild
				c.RemoveChild(gc)
				parent.AppendChild(gc)
			}
			continue
		}
		if c.Parent != nil {
			c = Clone(c)
		}
		parent.AppendChild(c)
	}
}

// Text текстовый узел.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Fragment группирует узлы без обёртки.
func Fragment(children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.DocumentNode}
	Append(n, children...)
	return n
}

// If возвращает n при cond, иначе nil.
func If(cond bool, n *html.Node) *html.Node {
	if cond {
		return n
	}
	return nil
}

// Clone глубоко копирует дерево. Копия не привязана к родителю.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	cp := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		cp.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(Clone(c))
	}
	return cp
}

// Render пишет дерево в w.
func Render(w io.Writer, n *html.Node) error {
	if err := html.Render(w, n); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeRender, "view: ошибка рендера")
	}
	return nil
}

// RenderString рендерит дерево в строку.
func RenderString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Document оборачивает корневой элемент в документ с doctype.
func Document(root *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	Append(doc, root)
	return doc
}

// Div и подобные помощники сокращают самые частые теги.
func Div(class string, children ...*html.Node) *html.Node {
	return El("div", A("class", class), children...)
}

// Span строчный элемент с классом.
func Span(class string, children ...*html.Node) *html.Node {
	if class == "" {
		return El("span", nil, children...)
	}
	return El("span", A("class", class), children...)
}

// Button кнопка type=button с дополнительными атрибутами.
func Button(class, label string, attrs ...string) *html.Node {
	all := append(A("type", "button", "class", class), A(attrs...)...)
	return El("button", all, Text(label))
}
