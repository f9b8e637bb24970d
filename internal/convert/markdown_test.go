package convert

import (
	"strings"
	"testing"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// TestMarkdownConverterPlainText verifies plain text passes through.
func TestMarkdownConverterPlainText(t *testing.T) {
	t.Parallel()

	c := NewMarkdownConverter()

	result, err := c.Convert(model.Page{
		Title:   "Plain",
		Content: "  just some notes\nwith two lines  ",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Content != "just some notes\nwith two lines" {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

// TestMarkdownConverterHTML covers the HTML element coverage.
func TestMarkdownConverterHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "headings and paragraphs",
			html: "<h1>Title</h1><p>First para.</p><p>Second para.</p>",
			want: "# Title\n\nFirst para.\n\nSecond para.",
		},
		{
			name: "emphasis",
			html: "<p>a <strong>bold</strong> and <em>italic</em> word</p>",
			want: "a **bold** and *italic* word",
		},
		{
			name: "unordered list",
			html: "<ul><li>one</li><li>two</li></ul>",
			want: "- one\n- two",
		},
		{
			name: "ordered list",
			html: "<ol><li>first</li><li>second</li></ol>",
			want: "1. first\n2. second",
		},
		{
			name: "link",
			html: `<p>see <a href="https://example.com">the docs</a></p>`,
			want: "see [the docs](https://example.com)",
		},
		{
			name: "link without href renders as text",
			html: `<p><a>anchor</a></p>`,
			want: "anchor",
		},
		{
			name: "inline code",
			html: "<p>run <code>go test</code> now</p>",
			want: "run `go test` now",
		},
		{
			name: "code block keeps markup verbatim",
			html: "<pre><code>if a &lt; b {\n\treturn\n}</code></pre>",
			want: "```\nif a < b {\n\treturn\n}\n```",
		},
		{
			name: "blockquote",
			html: "<blockquote>quoted words</blockquote>",
			want: "> quoted words",
		},
		{
			name: "line break",
			html: "<p>one<br>two</p>",
			want: "one\ntwo",
		},
		{
			name: "script and style are dropped",
			html: "<p>kept</p><script>alert(1)</script><style>p{}</style>",
			want: "kept",
		},
		{
			name: "whitespace runs collapse",
			html: "<p>widely \n\t  spaced</p>",
			want: "widely spaced",
		},
	}

	c := NewMarkdownConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := c.Convert(model.Page{Title: tt.name, Content: tt.html}, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Content != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", result.Content, tt.want)
			}
		})
	}
}

// TestMarkdownConverterNormalization verifies NFC normalization.
func TestMarkdownConverterNormalization(t *testing.T) {
	t.Parallel()

	c := NewMarkdownConverter()

	// "é" as 'e' + combining acute accent (NFD).
	result, err := c.Convert(model.Page{Content: "café"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Content != "café" {
		t.Errorf("expected NFC form, got %q", result.Content)
	}
}

// TestMarkdownConverterMetadata verifies metadata properties.
func TestMarkdownConverterMetadata(t *testing.T) {
	t.Parallel()

	c := NewMarkdownConverter()
	page := model.Page{
		Title:   "Meta",
		Content: "body",
		Metadata: model.PageMetadata{
			Author:    "bob",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}

	t.Run("included on request", func(t *testing.T) {
		t.Parallel()

		result, err := c.Convert(page, Options{IncludeMetadata: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Properties[model.PropertyAuthor] != "bob" {
			t.Errorf("expected author property, got %v", result.Properties)
		}
		if !strings.HasPrefix(result.Properties[model.PropertyCreated].(string), "2025-01-02") {
			t.Errorf("unexpected created property: %v", result.Properties[model.PropertyCreated])
		}
		if _, ok := result.Properties[model.PropertyUpdated]; ok {
			t.Error("zero updated time should not produce a property")
		}
	})

	t.Run("omitted by default", func(t *testing.T) {
		t.Parallel()

		result, err := c.Convert(page, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Properties) != 0 {
			t.Errorf("expected no properties, got %v", result.Properties)
		}
	})
}
