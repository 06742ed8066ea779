package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"jumewears/internal/model"
)

func newTestRenderer(t *testing.T) *Renderer {
	r, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func strPtr(s string) *string { return &s }

func TestProductSectionDataAttributes(t *testing.T) {
	r := newTestRenderer(t)

	section := &model.ProductSection{
		Type:     model.ProductTypeKit,
		Expanded: true,
		Category: "jerseys",
		Products: []model.Product{
			{
				ID:           uuid.New(),
				Type:         model.ProductTypeKit,
				Name:         "Home Kit 2026",
				PriceCents:   1250000,
				Available:    true,
				ThumbnailURL: strPtr("https://cdn.example.com/kit-thumb.jpg"),
			},
		},
	}

	var buf bytes.Buffer
	if err := r.ProductSection(&buf, section); err != nil {
		t.Fatalf("ProductSection failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		`data-product-type="kit"`,
		`data-expanded="true"`,
		`data-category="jerseys"`,
		"Home Kit 2026",
		"12500.00",
		`data-action="collapse"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Fragment missing %q:\n%s", want, html)
		}
	}
}

func TestProductSectionCollapsedShowsLoadMore(t *testing.T) {
	r := newTestRenderer(t)

	section := &model.ProductSection{
		Type:    model.ProductTypeTour,
		HasMore: true,
		Products: []model.Product{
			{ID: uuid.New(), Type: model.ProductTypeTour, Name: "Stadium Tour", PriceCents: 500000, Available: true},
		},
	}

	var buf bytes.Buffer
	if err := r.ProductSection(&buf, section); err != nil {
		t.Fatalf("ProductSection failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, `data-expanded="false"`) {
		t.Error("Collapsed section should carry data-expanded=\"false\"")
	}
	if !strings.Contains(html, `data-action="expand"`) {
		t.Error("Collapsed section with more products should offer expand")
	}
	if strings.Contains(html, `data-action="collapse"`) {
		t.Error("Collapsed section should not offer collapse")
	}
}

func TestProductSectionOutOfStock(t *testing.T) {
	r := newTestRenderer(t)

	section := &model.ProductSection{
		Type: model.ProductTypeChurch,
		Products: []model.Product{
			{ID: uuid.New(), Type: model.ProductTypeChurch, Name: "Choir Robe", PriceCents: 800000, Available: true, OutOfStock: true},
		},
	}

	var buf bytes.Buffer
	if err := r.ProductSection(&buf, section); err != nil {
		t.Fatalf("ProductSection failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "Out of stock") {
		t.Error("Out-of-stock product should show the badge")
	}
	if strings.Contains(html, "Add to cart") {
		t.Error("Out-of-stock product should not offer add to cart")
	}
}

func TestFeedItemsEmptyRendersNothing(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	if err := r.FeedItems(&buf, nil); err != nil {
		t.Fatalf("FeedItems failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Empty batch should render empty body, got %d bytes", buf.Len())
	}
}

func TestFeedItemsMixed(t *testing.T) {
	r := newTestRenderer(t)

	imageID := uuid.New()
	items := []model.FeedItem{
		{Type: "image", Image: &model.FeedImage{ID: imageID, URL: "https://cdn.example.com/a.jpg", UploadDate: time.Now(), Active: true}},
		{Type: "video", Video: &model.FeedVideo{VideoID: "dQw4w9WgXcQ", Title: "Matchday Highlights"}},
	}

	var buf bytes.Buffer
	if err := r.FeedItems(&buf, items); err != nil {
		t.Fatalf("FeedItems failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "https://cdn.example.com/a.jpg") {
		t.Error("Fragment missing image URL")
	}
	if !strings.Contains(html, "youtube.com/embed/dQw4w9WgXcQ") {
		t.Error("Fragment missing video embed")
	}
	if !strings.Contains(html, `data-image-id="`+imageID.String()+`"`) {
		t.Error("Fragment missing image id attribute")
	}
}

func TestTestimonialsToggle(t *testing.T) {
	r := newTestRenderer(t)

	data := &TestimonialList{
		ShowMore: false,
		Testimonials: []model.Testimonial{
			{ID: 1, Content: "Best jerseys in Lagos", User: &model.UserSummary{ID: 2, Username: "ada"}},
		},
	}

	var buf bytes.Buffer
	if err := r.Testimonials(&buf, data); err != nil {
		t.Fatalf("Testimonials failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{`data-show-more="false"`, "Best jerseys in Lagos", "ada", `data-action="more"`} {
		if !strings.Contains(html, want) {
			t.Errorf("Fragment missing %q:\n%s", want, html)
		}
	}

	data.ShowMore = true
	buf.Reset()
	if err := r.Testimonials(&buf, data); err != nil {
		t.Fatalf("Testimonials failed: %v", err)
	}
	if !strings.Contains(buf.String(), `data-action="less"`) {
		t.Error("Expanded list should offer show less")
	}
}

func TestContentIsEscaped(t *testing.T) {
	r := newTestRenderer(t)

	data := &TestimonialList{
		Testimonials: []model.Testimonial{
			{ID: 1, Content: `<script>alert("x")</script>`},
		},
	}

	var buf bytes.Buffer
	if err := r.Testimonials(&buf, data); err != nil {
		t.Fatalf("Testimonials failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("User content must be escaped")
	}
}
