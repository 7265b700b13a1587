package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Relay ASCII art banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []string{
		"  ______     _             ",
		"  | ___ \\   | |            ",
		"  | |_/ /___| | __ _ _   _ ",
		"  |    // _ \\ |/ _` | | | |",
		"  | |\\ \\  __/ | (_| | |_| |",
		"  \\_| \\_\\___|_|\\__,_|\\__, |",
		"                      __/ |",
		"                     |___/ ",
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185", "#fb7185", "#fb7185"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println()
}
