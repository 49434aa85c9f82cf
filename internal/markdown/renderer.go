package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown bodies into HTML. It is stateless so callers can
// reuse a single instance across requests without additional locking.
type Renderer struct {
	engine goldmark.Markdown
}

// Options controls renderer construction.
type Options struct {
	// HardWraps renders single newlines as <br> elements.
	HardWraps bool
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
}

// NewRenderer constructs a renderer with GFM extensions, autolinks, task
// lists, and auto heading IDs enabled.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Renderer{engine: goldmark.New(rendererOptions...)}
}

// Render converts a Markdown document into HTML.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderString is a convenience wrapper over Render for string bodies.
func (r *Renderer) RenderString(source string) (string, error) {
	out, err := r.Render([]byte(source))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
