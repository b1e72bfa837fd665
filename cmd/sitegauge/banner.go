package main

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// printBanner prints the ASCII-art banner shown before interactive audits.
func printBanner() {
	myFigure := figure.NewColorFigure("SITEGAUGE", "doom", "cyan", true)
	myFigure.Print()

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Println("════════════════════════════════════════════════")
	_, _ = green.Println("    Website SEO & Accessibility Audit | https://github.com/sitegauge/sitegauge")
	_, _ = cyan.Println("════════════════════════════════════════════════")
}
