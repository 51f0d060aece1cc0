/*
NAME
  toxml.go

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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ausocean/tsmeta/config"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// toxmlCmd represents the toxml command
var toxmlCmd = &cobra.Command{
	Use:   "toxml <file>",
	Short: "Convert a binary descriptor loop to XML",
	Long: `Convert a binary descriptor loop to an XML document written to the
standard output. Descriptors which cannot be decoded are written as
generic descriptors.

Example:
  tsdesc toxml --table PMT pmt_loop.hex`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		return toXML(a, cmd.OutOrStdout(), args[0])
	},
}

// toXML writes the XML document of a descriptor loop file to w.
func toXML(a *app, w io.Writer, path string) error {
	data, err := readLoop(path)
	if err != nil {
		return err
	}
	l := a.newList(a.cfg.TableID)
	if err := l.AddBytes(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	root := xmldoc.NewElement(rootName)
	xmldoc.SetIntEnumAttribute(root, "table", config.TableNames, a.cfg.TableID)
	if err := l.ToXML(root); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return root.Write(w)
}

func init() {
	rootCmd.AddCommand(toxmlCmd)
}
