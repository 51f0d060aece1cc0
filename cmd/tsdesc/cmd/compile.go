/*
NAME
  compile.go

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
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ausocean/tsmeta/config"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <xml file>",
	Short: "Compile an XML description to a binary descriptor loop",
	Long: `Compile an XML description of descriptors to a binary descriptor loop.
The table attribute of the root element, when present, overrides the
table flag. An output file ending in .hex or .txt receives hexadecimal
text.

Example:
  tsdesc compile nit.xml -o nit_loop.bin
  tsdesc compile nit.xml -o nit_loop.hex --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			return fmt.Errorf("an output file is required")
		}
		err = compileFile(a, args[0], out)
		if watch, _ := cmd.Flags().GetBool("watch"); !watch {
			return err
		}
		if err != nil {
			a.log.Error("compilation failed", "file", args[0], "error", err.Error())
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchAndCompile(ctx, a, args[0], out)
	},
}

// compileFile compiles the XML document in path to a descriptor loop
// written to out.
func compileFile(a *app, path, out string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	root, err := xmldoc.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !root.NameIs(rootName) {
		return fmt.Errorf("%s: root element is <%s>, expected <%s>", path, root.Name, rootName)
	}
	tid, err := xmldoc.GetIntEnumAttribute[desc.TID](root, "table", config.TableNames, false, a.cfg.TableID)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	l := a.newList(tid)
	if err := l.FromXML(root); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := writeLoop(out, l.Bytes()); err != nil {
		return err
	}
	a.log.Info("compiled descriptors", "file", path, "output", out, "descriptors", l.Len())
	return nil
}

// watchAndCompile recompiles path to out whenever it changes, until ctx is
// done. Compilation errors are logged and do not stop watching.
func watchAndCompile(ctx context.Context, a *app, path, out string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, editors often replace files rather than write them.
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("could not watch %s: %w", path, err)
	}
	a.log.Info("watching for changes", "file", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warning("watcher error", "error", err.Error())
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := compileFile(a, path, out); err != nil {
				a.log.Error("compilation failed", "file", path, "error", err.Error())
			}
		}
	}
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "output descriptor loop file")
	compileCmd.Flags().Bool("watch", false, "recompile whenever the XML file changes")
	rootCmd.AddCommand(compileCmd)
}
