// Package main provides the entry point for the sitegauge CLI.
//
// sitegauge audits web pages for SEO, accessibility, mobile-friendliness,
// and performance, tracks scores over time, and derives trend analyses
// from the accumulated history.
//
// Usage:
//
//	sitegauge audit <url>
//	sitegauge trend <url> --period 30d
//	sitegauge history <url>
//
// See --help for all available options.
package main

// main is the entry point for sitegauge.
func main() {
	Execute()
}
