package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phroun/purfectmux"
)

const (
	defaultCols = 80
	defaultRows = 24
)

func newRenderCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Print the surface produced by the input",
		Long: `Render parses the input (a file, or stdin when omitted) onto a surface
and prints the result, scrollback included. Hyperlinks are re-issued as
OSC 8 sequences carrying their generated identifiers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.replay(cmd, args)
			if err != nil {
				return err
			}
			defer buf.Close()

			if plain {
				_, err = io.WriteString(cmd.OutOrStdout(), buf.Text())
				return err
			}
			return buf.WriteANSI(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print text only, without attributes or hyperlinks")
	return cmd
}

func newLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links [file]",
		Short: "List the hyperlinks still live after the input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.replay(cmd, args)
			if err != nil {
				return err
			}
			defer buf.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HANDLE\tTOKEN\tID\tURI")
			for _, l := range buf.Hyperlinks() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.Handle, l.Token, l.ID, l.URI)
			}
			return w.Flush()
		},
	}
}

// replay parses the command's input onto a new surface.
func (a *app) replay(cmd *cobra.Command, args []string) (*purfectmux.Buffer, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	cols, rows := a.cfg.Cols, a.cfg.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	opts := []purfectmux.Option{
		purfectmux.WithHyperlinkPool(a.pool),
		purfectmux.WithLogger(a.slogger()),
	}
	if a.cfg.Scrollback > 0 {
		opts = append(opts, purfectmux.WithScrollback(a.cfg.Scrollback))
	}

	buf, err := purfectmux.NewBuffer(cols, rows, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(purfectmux.NewParser(buf), in); err != nil {
		buf.Close()
		return nil, fmt.Errorf("read input: %w", err)
	}
	a.log.DebugContext(cmd.Context(), "input replayed",
		"cols", cols,
		"rows", rows,
		"links", len(buf.Hyperlinks()),
		"pool_live", a.pool.Len(),
	)
	return buf, nil
}
