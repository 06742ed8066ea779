// Package render produces the HTML fragments returned by the load-more
// style endpoints. Fragments replace a section of the page wholesale, so
// each template re-emits the data attributes the client script reads to
// re-wire its handlers after the swap.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"jumewears/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer holds the parsed fragment templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("fragments").Funcs(template.FuncMap{
		"money": formatMoney,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// ProductSection renders a catalog section in its collapsed or expanded state.
func (r *Renderer) ProductSection(w io.Writer, section *model.ProductSection) error {
	return r.tmpl.ExecuteTemplate(w, "product_section.tmpl", section)
}

// FeedItems renders a batch of mixed feed entries. An empty batch renders
// nothing, which the client treats as end of feed.
func (r *Renderer) FeedItems(w io.Writer, items []model.FeedItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.tmpl.ExecuteTemplate(w, "feed_items.tmpl", items)
}

// TestimonialList is the toggle fragment's template data.
type TestimonialList struct {
	ShowMore     bool
	Testimonials []model.Testimonial
}

// Testimonials renders the testimonial list fragment.
func (r *Renderer) Testimonials(w io.Writer, data *TestimonialList) error {
	return r.tmpl.ExecuteTemplate(w, "testimonials.tmpl", data)
}

// formatMoney renders integer cents as a plain decimal amount.
func formatMoney(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
