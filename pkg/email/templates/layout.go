package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps rendered message HTML into a minimal email document.
// The title is escaped; content is trusted output of the markdown renderer.
func Layout(title, content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</title></head><body style="font-family:sans-serif;line-height:1.5">`); err != nil {
			return err
		}
		if err := templ.Raw(content).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
