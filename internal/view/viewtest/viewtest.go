// Package viewtest разбирает отрендеренный HTML для проверок в тестах.
package viewtest

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Parse разбирает документ или фрагмент.
func Parse(t testing.TB, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("viewtest: не удалось разобрать html: %v", err)
	}
	return doc
}

// RenderNode рендерит узел в строку и разбирает обратно как документ.
func RenderNode(t testing.TB, n *html.Node) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		t.Fatalf("viewtest: рендер: %v", err)
	}
	return Parse(t, buf.String())
}

// Find все элементы, для которых match вернул true, в порядке документа.
func Find(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// ByClass элементы с css-классом class.
func ByClass(root *html.Node, class string) []*html.Node {
	return Find(root, func(n *html.Node) bool { return HasClass(n, class) })
}

// ByTag элементы с тегом tag.
func ByTag(root *html.Node, tag string) []*html.Node {
	return Find(root, func(n *html.Node) bool { return n.Data == tag })
}

// ByID элемент с id или nil.
func ByID(root *html.Node, id string) *html.Node {
	found := Find(root, func(n *html.Node) bool { return Attr(n, "id") == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// ByAttr элементы с атрибутом key=val.
func ByAttr(root *html.Node, key, val string) []*html.Node {
	return Find(root, func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return true
			}
		}
		return false
	})
}

// Attr значение атрибута или пустая строка.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass содержит ли class-атрибут класс.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// TextOf склеенный текст поддерева без лишних пробелов.
func TextOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Texts тексты каждого узла.
func Texts(nodes []*html.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, TextOf(n))
	}
	return out
}
