/*
NAME
  display.go

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// displayCmd represents the display command
var displayCmd = &cobra.Command{
	Use:   "display <file>...",
	Short: "Display binary descriptor loops",
	Long: `Display binary descriptor loops in human readable form. Files ending
in .hex or .txt hold hexadecimal text, other files raw bytes.

Example:
  tsdesc display --table NIT nit_loop.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		return displayFiles(cmd.Context(), a, cmd.OutOrStdout(), args)
	},
}

// displayFiles decodes the files concurrently and writes their displays to w
// in the order given.
func displayFiles(ctx context.Context, a *app, w io.Writer, paths []string) error {
	out := make([]bytes.Buffer, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(a.cfg.Workers))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return displayFile(a, &out[i], path)
		})
	}
	err := g.Wait()
	for i := range out {
		if _, werr := w.Write(out[i].Bytes()); werr != nil {
			return werr
		}
	}
	return err
}

// displayFile writes the display of one descriptor loop file. Descriptors
// preceding a truncated one are displayed.
func displayFile(a *app, w io.Writer, path string) error {
	data, err := readLoop(path)
	if err != nil {
		return err
	}
	l := a.newList(a.cfg.TableID)
	err = l.AddBytes(data)
	fmt.Fprintf(w, "* %s: %d bytes, %d descriptors\n", path, len(data), l.Len())
	l.Display(w, a.margin())
	if err != nil {
		a.log.Warning("could not parse descriptor loop", "file", path, "error", err.Error())
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(displayCmd)
}
