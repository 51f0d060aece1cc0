/*
NAME
  mpeg.go

DESCRIPTION
  mpeg.go registers the MPEG systems descriptors (ISO/IEC 13818-1) and the
  AusOcean metadata descriptor carried in the PMT.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mpeg provides MPEG systems descriptors.
package mpeg

import (
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
)

// Descriptor tags.
const (
	TagVideoStream = 0x02
	TagMetadata    = 0x26
)

// Register registers the MPEG descriptors with b.
func Register(b *desc.Builder) {
	b.Register(desc.Registration{
		Identity: desc.Regular(TagVideoStream),
		XMLName:  VideoStreamXMLName,
		Factory:  func() desc.Codec { return &VideoStream{} },
		Display:  displayVideoStream,
	})
	b.Register(desc.Registration{
		Identity: desc.TableSpecific(TagMetadata, desc.TIDPMT),
		XMLName:  MetadataXMLName,
		Factory:  func() desc.Codec { return NewMetadata() },
		Display:  displayMetadata,
	})
}

var (
	// FrameRateNames names the MPEG-2 video frame rate codes.
	FrameRateNames = names.Sequence(1, "23.976", "24", "25", "29.97", "30", "50", "59.94", "60")

	// ChromaFormatNames names the MPEG-2 video chroma formats.
	ChromaFormatNames = names.Sequence(1, "4:2:0", "4:2:2", "4:4:4")
)
