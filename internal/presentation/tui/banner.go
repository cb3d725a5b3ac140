package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Framelight.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Warm gradient, amber into rose
	s1 := termenv.String(`  ______                         _ _       _     _   `).Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(` |  ____|                       | (_)     | |   | |  `).Foreground(p.Color("#f59e0b"))
	s3 := termenv.String(` | |__ _ __ __ _ _ __ ___   ___ | |_  __ _| |__ | |_ `).Foreground(p.Color("#f97316"))
	s4 := termenv.String(` |  __| '__/ _` + "`" + ` | '_ ` + "`" + ` _ \ / _ \| | |/ _` + "`" + ` | '_ \| __|`).Foreground(p.Color("#fb7185"))
	s5 := termenv.String(` | |  | | | (_| | | | | | |  __/| | | (_| | | | | |_ `).Foreground(p.Color("#f43f5e"))
	s6 := termenv.String(` |_|  |_|  \__,_|_| |_| |_|\___||_|_|\__, |_| |_|\__|`).Foreground(p.Color("#e11d48"))
	s7 := termenv.String(`                                      __/ |          `).Foreground(p.Color("#be123c"))
	s8 := termenv.String(`                                     |___/           `).Foreground(p.Color("#9f1239"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(s7)
	fmt.Println(s8)
	if version != "" {
		fmt.Println(termenv.String("  " + version).Foreground(p.Color("#9ca3af")).Faint())
	}
	fmt.Println()
}
