package client

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"title":"a"}`, `{"title":"a"}`},
		{"json fence", "Here you go:\n```json\n{\"title\":\"a\"}\n```\nEnjoy", `{"title":"a"}`},
		{"bare fence", "```\n{\"title\":\"a\"}\n```", `{"title":"a"}`},
		{"leading chatter", `Sure! {"title":"a"} hope it helps`, `{"title":"a"}`},
		{"array", `result: [{"term":"x"}] done`, `[{"term":"x"}]`},
		{
			"apology with embedded article",
			`Maaf, berikut artikelnya: {"title":"T","content_html":"<p>x</p>"}`,
			`{"title":"T","content_html":"<p>x</p>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_RejectsHTML(t *testing.T) {
	_, err := ExtractJSON("<html><body>Service unavailable</body></html>")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Contains(t, err.Error(), "Response started with: <html>")
}

func TestParseArticle_PostProcesses(t *testing.T) {
	longMeta := strings.Repeat("a", 170)
	reply := "```json\n" + `{
		"title": "<h1>Kopi &amp; Susu</h1>",
		"meta_description": "<p>` + longMeta + `</p>",
		"tags": ["kopi", "susu"],
		"content_html": "<p>Baca [https://kopi.id|di sini]&nbsp;ya</p>\n\n<p>Atau [tautan](https://kopi.id)</p>"
	}` + "\n```"

	article, err := ParseArticle(reply)
	require.NoError(t, err)

	assert.Equal(t, "Kopi & Susu", article.Title)
	assert.Len(t, article.MetaDescription, 160)
	assert.True(t, strings.HasSuffix(article.MetaDescription, "..."))
	assert.Equal(t, []string{"kopi", "susu"}, article.Tags)
	assert.Equal(t,
		`<p>Baca <a href="https://kopi.id">di sini</a> ya</p> <p>Atau <a href="https://kopi.id">tautan</a></p>`,
		article.ContentHTML,
	)
}

func TestParseArticle_InvalidJSON(t *testing.T) {
	_, err := ParseArticle(`{"title": "unterminated`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestParseArticle_DefaultsTags(t *testing.T) {
	article, err := ParseArticle(`{"title":"T","content_html":"<p>x</p>"}`)
	require.NoError(t, err)
	assert.NotNil(t, article.Tags)
	assert.Empty(t, article.Tags)
}

func TestFixMalformedLinks(t *testing.T) {
	tests := map[string]string{
		"[https://a.id|Situs A]":       `<a href="https://a.id">Situs A</a>`,
		"[Situs A|https://a.id]":       `<a href="https://a.id">Situs A</a>`,
		"[Situs A](https://a.id)":      `<a href="https://a.id">Situs A</a>`,
		"[https://a.id]":               `<a href="https://a.id">https://a.id</a>`,
		`<a href="https://a.id">x</a>`: `<a href="https://a.id">x</a>`,
	}
	for in, want := range tests {
		assert.Equal(t, want, FixMalformedLinks(in), in)
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, `Kopi "enak" <3`, StripHTML("<strong>Kopi</strong>&nbsp;&quot;enak&quot;  &lt;3"))
}
