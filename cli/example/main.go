// Example program demonstrating the CLI adapter
//
// It fills a surface with numbered lines, some of them hyperlinked, and shows
// it inside your actual terminal with a border and status bar. Hover or
// click the links if your terminal supports OSC 8.
//
// Controls:
//   - Up/Down, j/k: Scroll one line
//   - PageUp/PageDown: Scroll one page
//   - Home/End: Jump to top/bottom of scrollback
//   - q or Ctrl+C: Quit
//
// Usage:
//
//	go run main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phroun/purfectmux/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term, err := cli.New(cli.Options{
		AutoSize:       true,
		BorderStyle:    cli.BorderRounded,
		Title:          "purfectmux demo",
		ShowStatusBar:  true,
		ScrollbackSize: 10000,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create terminal: %v\n", err)
		os.Exit(1)
	}

	if err := term.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start terminal: %v\n", err)
		os.Exit(1)
	}

	var sb strings.Builder
	for i := 1; i <= 200; i++ {
		if i%5 == 0 {
			// Lines sharing an id are one link to the outer terminal
			fmt.Fprintf(&sb, "\x1b]8;id=issue-%d;https://example.com/issues/%d\x1b\\issue #%d\x1b]8;;\x1b\\\r\n", i/10, i/10, i/10)
			continue
		}
		fmt.Fprintf(&sb, "\x1b[3%dmline %d\x1b[0m\r\n", i%8, i)
	}
	term.FeedString(sb.String())

	if err := term.Wait(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Wait: %v\n", err)
	}

	if err := term.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to restore terminal: %v\n", err)
		os.Exit(1)
	}
}
