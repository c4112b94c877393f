package topics

import "strings"

// Renderer turns raw topic content into what is printed. format is the
// topic file extension, e.g. ".md".
type Renderer interface {
	Render(content string, format string) string
}

// RendererFunc adapts a plain function to Renderer
type RendererFunc func(content string, format string) string

// Render calls f
func (f RendererFunc) Render(content string, format string) string {
	return f(content, format)
}

// PlainRenderer prints topics as written, ending with a newline
type PlainRenderer struct{}

// Render returns content with exactly one trailing newline
func (r *PlainRenderer) Render(content string, format string) string {
	return strings.TrimRight(content, "\n") + "\n"
}

// RendererFor picks glamour for styled output and plain text otherwise
func RendererFor(styled bool) Renderer {
	if styled {
		return NewGlamourRenderer()
	}
	return &PlainRenderer{}
}
