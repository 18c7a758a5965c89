package render

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/marco/movieBrowser/internal/catalog"
)

func testRenderer() *Renderer {
	poster := func(p string) string { return "https://img.example/w500" + p }
	return NewRenderer(poster, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRender_Tile(t *testing.T) {
	r := testRenderer()
	f := r.Render(catalog.MovieSummary{ID: 42, Title: `Tom & "Jerry"`, PosterPath: "/tj.jpg"})

	if f.Empty() {
		t.Fatal("expected non-empty fragment")
	}
	if f.PosterURL != "https://img.example/w500/tj.jpg" {
		t.Errorf("PosterURL = %q", f.PosterURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(f.HTML)))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	li := doc.Find("li.movie-item")
	if li.Length() != 1 {
		t.Fatalf("expected 1 li.movie-item, got %d", li.Length())
	}
	if id, _ := li.Attr("data-movie-id"); id != "42" {
		t.Errorf("data-movie-id = %q, want 42", id)
	}
	if _, exists := li.Attr("data-movie"); exists {
		t.Error("tile must not embed the serialized movie")
	}
	if alt, _ := li.Find("img").Attr("alt"); alt != `Tom & "Jerry"` {
		t.Errorf("alt = %q", alt)
	}
	if href, _ := li.Find("a").Attr("href"); href != "/movie?id=42" {
		t.Errorf("href = %q", href)
	}
}

func TestRender_MissingPosterIsEmpty(t *testing.T) {
	r := testRenderer()
	if f := r.Render(catalog.MovieSummary{ID: 1, Title: "No Poster"}); !f.Empty() {
		t.Errorf("expected empty fragment, got %+v", f)
	}
	if f := r.Render(catalog.MovieSummary{}); !f.Empty() {
		t.Errorf("expected empty fragment for zero movie, got %+v", f)
	}
}

func TestRenderAll_DropsPosterlessAndRegisters(t *testing.T) {
	r := testRenderer()
	reg := NewRegistry()
	movies := []catalog.MovieSummary{
		{ID: 1, Title: "A", PosterPath: "/a.jpg"},
		{ID: 2, Title: "B"},
		{ID: 3, Title: "C", PosterPath: "/c.jpg"},
	}

	got := r.RenderAll(movies, reg)

	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected fragments: %+v", got)
	}
	if reg.Len() != 2 {
		t.Errorf("registry has %d entries, want 2", reg.Len())
	}
	if _, ok := reg.Lookup(2); ok {
		t.Error("unrendered movie should not be registered")
	}
	if m, ok := reg.Lookup(3); !ok || m.Title != "C" {
		t.Errorf("Lookup(3) = (%+v, %v)", m, ok)
	}
}
