package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phroun/purfectmux/cli"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view file",
		Short: "Show the input inside the host terminal",
		Long: `View feeds the file onto a surface displayed inside the current
terminal, with the border, title and status bar from the configuration.
Scroll with the arrow keys, j/k or PageUp/PageDown; quit with q.

Stdin carries the keyboard, so the input must be a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			opts := a.cfg.Options()
			opts.Pool = a.pool
			opts.Logger = a.slogger()
			opts.Output = cmd.OutOrStdout()

			term, err := cli.New(opts)
			if err != nil {
				return err
			}
			if err := term.Start(); err != nil {
				term.Stop()
				return err
			}
			defer func() {
				if stopErr := term.Stop(); stopErr != nil && err == nil {
					err = stopErr
				}
			}()

			ctx := cmd.Context()
			if err := term.Run(ctx, in); err != nil {
				if errors.Is(err, ctx.Err()) {
					return nil
				}
				return fmt.Errorf("view: %w", err)
			}
			if err := term.Wait(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
