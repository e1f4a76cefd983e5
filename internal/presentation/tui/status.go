package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status writes a one-line colored verdict, green when ok and red otherwise.
// Colors degrade to plain text when w is not a terminal.
func Status(w io.Writer, ok bool, msg string) {
	p := termenv.NewOutput(w).ColorProfile()

	mark, color := "✔", "#22c55e"
	if !ok {
		mark, color = "✘", "#ef4444"
	}
	fmt.Fprintln(w, p.String(mark + " " + msg).Foreground(p.Color(color)).Bold())
}

// PrintBanner writes the startup banner for long running commands.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _       _        _        ", "#818cf8"},
		{"(_)_ __ | |_ __ _| | _____ ", "#a78bfa"},
		{"| | '_ \\| __/ _` | |/ / _ \\", "#c084fc"},
		{"| | | | | || (_| |   <  __/", "#e879f9"},
		{"|_|_| |_|\\__\\__,_|_|\\_\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
