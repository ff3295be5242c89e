package terminal

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the title in the token colors.
func PrintBanner(w io.Writer) {
	output := termenv.NewOutput(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.String("  Connect").Foreground(output.Color(colorRed)).Bold(),
		output.String("Four").Foreground(output.Color(colorYellow)).Bold())
	fmt.Fprintln(w)
}
