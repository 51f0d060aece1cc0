/*
NAME
  tsdesc - inspects and compiles MPEG-TS descriptor loops.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// tsdesc displays, converts and compiles MPEG-TS descriptor loops.
package main

import "github.com/ausocean/tsmeta/cmd/tsdesc/cmd"

func main() {
	cmd.Execute()
}
