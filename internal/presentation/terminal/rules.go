package terminal

import (
	"github.com/charmbracelet/glamour"
)

const rulesMarkdown = `# Connect Four

Two players share one keyboard. **Red** moves first, then **Yellow**.

* Type a column number ` + "`1`" + `-` + "`7`" + ` to drop a token. It falls to the lowest free cell.
* Four in a row horizontally, vertically or diagonally wins.
* A full board without a line is a draw.
* ` + "`r`" + ` starts over, ` + "`q`" + ` quits.
`

// Rules - rules rendered as styled markdown, plain markdown when styling fails.
func Rules() string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return rulesMarkdown
	}

	rendered, err := renderer.Render(rulesMarkdown)
	if err != nil {
		return rulesMarkdown
	}

	return rendered
}
