/*
NAME
  pmt.go

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
	"os"

	"github.com/spf13/cobra"

	"github.com/ausocean/tsmeta/container/mts"
)

// pmtCmd represents the pmt command
var pmtCmd = &cobra.Command{
	Use:   "pmt <ts file>",
	Short: "Display the descriptors of the first PMT in a transport stream",
	Long: `Find the first PAT in a file of MPEG-TS packets and display the
program and elementary stream descriptors of the PMT following it.

Example:
  tsdesc pmt clip.ts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fromContext(cmd.Context())
		if err != nil {
			return err
		}
		return displayPMT(a, cmd.OutOrStdout(), args[0])
	},
}

// displayPMT writes the descriptors of the first PMT of a TS file to w.
func displayPMT(a *app, w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	i, pmt, err := mts.FindPSI(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(w, "* PMT after PAT at packet %d, program %d, version %d, PCR PID 0x%04X\n", i/mts.PacketSize, pmt.Program, pmt.Version, pmt.PCRPID)

	l, err := mts.ProgramDescriptors(a.reg, pmt, a.log)
	l.SetDefaultPDS(a.cfg.PDS)
	fmt.Fprintf(w, "%sProgram information, %d descriptors\n", a.margin(), l.Len())
	l.Display(w, a.margin()+a.margin())
	if err != nil {
		return fmt.Errorf("%s: program descriptors: %w", path, err)
	}

	streams, err := mts.StreamDescriptors(a.reg, pmt, a.log)
	for _, s := range pmt.Streams {
		l, ok := streams[s.PID]
		if !ok {
			continue
		}
		l.SetDefaultPDS(a.cfg.PDS)
		fmt.Fprintf(w, "%sElementary stream: type 0x%02X, PID 0x%04X, %d descriptors\n", a.margin(), s.Type, s.PID, l.Len())
		l.Display(w, a.margin()+a.margin())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pmtCmd)
}
