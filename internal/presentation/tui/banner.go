package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"       _               _    _                 ",
	"   ___| |__   ___  ___| | _| |_ _ __ ___  ___ ",
	"  / __| '_ \\ / _ \\/ __| |/ / __| '__/ _ \\/ _ \\",
	" | (__| | | |  __/ (__|   <| |_| | |  __/  __/",
	"  \\___|_| |_|\\___|\\___|_|\\_\\\\__|_|  \\___|\\___|",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the checktree banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
