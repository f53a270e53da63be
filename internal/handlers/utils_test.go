package handlers

import (
	"bytes"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel-diary/app/web"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	templates, err := LoadTemplates(web.Templates())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"auth/login.html",
		"auth/register.html",
		"error.html",
		"tours/my_tours.html",
		"tours/new_tour.html",
		"tours/tour_detail.html",
		"tours/tours_list.html",
	}, templates.Names())
}

func TestLoadTemplates_MissingLayout(t *testing.T) {
	_, err := LoadTemplates(fstest.MapFS{
		"page.html": {Data: []byte(`{{define "content"}}hi{{end}}`)},
	})
	assert.Error(t, err)
}

func TestTemplates_RenderWithPartial(t *testing.T) {
	templates, err := LoadTemplates(fstest.MapFS{
		"layout.html":    {Data: []byte(`{{define "layout"}}<main>{{template "content" .}}</main>{{end}}`)},
		"_greeting.html": {Data: []byte(`{{define "greeting"}}Hello, {{.}}{{end}}`)},
		"pages/hi.html":  {Data: []byte(`{{define "content"}}{{template "greeting" .}}{{end}}`)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, templates.Render(&buf, "pages/hi.html", "<alice>"))
	assert.Equal(t, "<main>Hello, &lt;alice&gt;</main>", buf.String())

	assert.Error(t, templates.Render(&buf, "pages/missing.html", nil))
}

func TestTemplateHelpers(t *testing.T) {
	assert.Equal(t, "-", FormatCost(sql.NullFloat64{}))
	assert.Equal(t, "12.30", FormatCost(sql.NullFloat64{Float64: 12.3, Valid: true}))

	assert.Equal(t, "-", OrDash("  "))
	assert.Equal(t, "Rome", OrDash("Rome"))

	assert.Equal(t, "a<br>&lt;b&gt;", string(Nl2br("a\n<b>")))
}
