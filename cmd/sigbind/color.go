package main

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

var stdoutIsTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func colorize(s, color string) string {
	if !stdoutIsTTY {
		return s
	}
	return color + s + colorReset
}
