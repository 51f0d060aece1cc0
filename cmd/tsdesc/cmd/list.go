/*
NAME
  list.go

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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ausocean/tsmeta/config"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the supported descriptors",
	Long: `List the identity and XML name of every registered descriptor, with
the tables a table specific descriptor is allowed in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		listDescriptors(a, cmd.OutOrStdout())
		return nil
	},
}

// listDescriptors writes one line per registered identity to w.
func listDescriptors(a *app, w io.Writer) {
	for _, id := range a.reg.Identities() {
		r, ok := a.reg.Lookup(id)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%-28s %s", id, r.XMLName)
		if r.LegacyXMLName != "" {
			line += fmt.Sprintf(" (legacy %s)", r.LegacyXMLName)
		}
		if tids := a.reg.TablesFor(r.XMLName); len(tids) != 0 {
			var tables []string
			for _, tid := range tids {
				tables = append(tables, config.TableNames.NameOrValue(int64(tid)))
			}
			line += " in " + strings.Join(tables, ", ")
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
