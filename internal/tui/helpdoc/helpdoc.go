// Package helpdoc renders the inspector's built-in help page.
package helpdoc

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

//go:embed help.md
var source []byte

// Meta is the front matter at the top of the help page.
type Meta struct {
	Title    string   `yaml:"title"`
	Sections []string `yaml:"sections"`
}

// Doc is a parsed help page.
type Doc struct {
	Meta Meta
	Body string
}

// Load parses the embedded help page.
func Load() (Doc, error) {
	return Parse(source)
}

// Parse splits raw markdown into front matter and body.
func Parse(raw []byte) (Doc, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return Doc{}, fmt.Errorf("failed to parse help front matter: %w", err)
	}
	if meta.Title == "" {
		return Doc{}, fmt.Errorf("help page has no title")
	}
	return Doc{Meta: meta, Body: string(body)}, nil
}

// Render renders the body with glamour at the given wrap width.
func (d Doc) Render(style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(d.Body)
	if err != nil {
		return "", fmt.Errorf("failed to render help: %w", err)
	}
	return out, nil
}

// DetectStyle picks a glamour style from the terminal background. A
// concrete GLAMOUR_STYLE wins; detection gives up after timeout because
// some terminals never answer the background query.
func DetectStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		if termenv.NewOutput(os.Stdout).HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}
