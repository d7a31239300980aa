package view

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestAdaptGomponentToTempl(t *testing.T) {
	var buf bytes.Buffer
	err := AdaptGomponentToTempl(h.Li(g.Text("alice"))).Render(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, "<li>alice</li>", buf.String())
}

func TestAdaptTemplToGomponent(t *testing.T) {
	component := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>bob</b>")
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, h.Div(AdaptTemplToGomponent(component)).Render(&buf))
	assert.Equal(t, "<div><b>bob</b></div>", buf.String())
}
