package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

var colored = isatty.IsTerminal(os.Stdout.Fd())

func paint(color, s string) string {
	if !colored {
		return s
	}
	return color + s + colorReset
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println()
	fmt.Println(paint(colorBold+colorGreen, "  agricast - maize wholesale price forecaster"))
	fmt.Println(paint(colorGray, "  deterministic, rule-based | version "+version))
	fmt.Println()
}

// Info logs an informational message under a short subsystem tag.
func Info(tag, msg string) {
	fmt.Printf("%s %s\n", paint(colorBlue, "["+tag+"]"), msg)
}

// Success logs a completed step.
func Success(tag, msg string) {
	fmt.Printf("%s %s\n", paint(colorGreen, "["+tag+"]"), msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	fmt.Printf("%s %s\n", paint(colorYellow, "["+tag+"]"), msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	fmt.Printf("%s %s\n", paint(colorRed, "["+tag+"]"), msg)
}

// Server logs the listen address once the HTTP server is up.
func Server(addr string) {
	fmt.Printf("%s dashboard on %s\n", paint(colorCyan, "[HTTP]"), paint(colorBold, "http://"+addr))
}

// Section prints a report section heading.
func Section(title string) {
	fmt.Println()
	fmt.Println(paint(colorBold+colorCyan, "== "+title+" =="))
}

// Stats prints a single key/value report line.
func Stats(key string, value interface{}) {
	fmt.Printf("  %-28s %v\n", paint(colorGray, key), value)
}
