package ui

import (
	"fmt"
	"io"

	"centrefind/internal/search"
)

// RenderResults prints ranked hits, one per line, score first.
func RenderResults(w io.Writer, results []search.Result, styles Styles) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("no matches"))
		return
	}

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s  %s\n",
			styles.Score.Render(fmt.Sprintf("%5d", r.Score)),
			styles.Path.Render(r.Path))
	}
}
