// Package cli shows a purfectmux surface inside the host terminal.
//
// The surface is drawn in a window within the actual CLI screen. All escape
// sequence interpretation is done by purfectmux's own parser; the host only
// receives the rendered result. OSC 8 hyperlinks are re-emitted to the host
// with the surface's external tokens as their id, so the host groups linked
// cells the same way the surface does.
//
// # Features
//
//   - Scrollback navigation (arrows, PageUp/PageDown, Home/End, j/k)
//   - Multiple border styles (single, double, heavy, rounded)
//   - Optional status bar showing cursor position and live hyperlinks
//   - Window resizing that tracks the host terminal (SIGWINCH)
//   - Differential rendering driven by the buffer's dirty rows
//   - TOML configuration (LoadConfig)
//
// # Basic Usage
//
//	t, err := cli.New(cli.Options{
//	    AutoSize:      true,
//	    BorderStyle:   cli.BorderRounded,
//	    Title:         "My Terminal",
//	    ShowStatusBar: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := t.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Stop()
//
//	f, err := os.Open("session.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//	if err := t.Run(ctx, f); err != nil {
//	    log.Fatal(err)
//	}
//	t.Wait(ctx)
//
// # Architecture
//
//   - Terminal: owns the buffer and parser and coordinates rendering and input
//   - Renderer: draws the buffer to the host terminal using ANSI codes
//   - InputHandler: reads raw keys and drives scrolling and quitting
package cli
