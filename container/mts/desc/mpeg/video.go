/*
NAME
  video.go

DESCRIPTION
  video.go provides the video_stream_descriptor.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg

import (
	"fmt"
	"io"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const VideoStreamXMLName = "video_stream_descriptor"

// VideoStream is a video_stream_descriptor. The fields following StillPicture
// are only present when MPEG1Only is false.
type VideoStream struct {
	desc.Base
	MultipleFrameRate    bool
	FrameRateCode        uint8 // 4 bits.
	MPEG1Only            bool
	ConstrainedParameter bool
	StillPicture         bool
	ProfileLevel         uint8
	ChromaFormat         uint8 // 2 bits.
	FrameRateExtension   bool
}

func (d *VideoStream) Identity() desc.Identity       { return desc.Regular(TagVideoStream) }
func (d *VideoStream) XMLName() string               { return VideoStreamXMLName }
func (d *VideoStream) Duplication() desc.Duplication { return desc.Replace }

func (d *VideoStream) Clear() { *d = VideoStream{Base: d.Base} }

func (d *VideoStream) SerializePayload(b *bits.Buffer) {
	b.PutBit(d.MultipleFrameRate)
	b.PutBits(uint64(d.FrameRateCode), 4)
	b.PutBit(d.MPEG1Only)
	b.PutBit(d.ConstrainedParameter)
	b.PutBit(d.StillPicture)
	if d.MPEG1Only {
		return
	}
	b.PutUint8(d.ProfileLevel)
	b.PutBits(uint64(d.ChromaFormat), 2)
	b.PutBit(d.FrameRateExtension)
	b.PutReservedBits(5)
}

func (d *VideoStream) DeserializePayload(b *bits.Buffer) {
	d.MultipleFrameRate = b.GetBit()
	d.FrameRateCode = bits.Get[uint8](b, 4)
	d.MPEG1Only = b.GetBit()
	d.ConstrainedParameter = b.GetBit()
	d.StillPicture = b.GetBit()
	if d.MPEG1Only {
		return
	}
	d.ProfileLevel = b.GetUint8()
	d.ChromaFormat = bits.Get[uint8](b, 2)
	d.FrameRateExtension = b.GetBit()
	b.SkipReservedBits(5)
}

func (d *VideoStream) BuildXML(e *xmldoc.Element) {
	xmldoc.SetBoolAttribute(e, "multiple_frame_rate", d.MultipleFrameRate)
	xmldoc.SetIntAttribute(e, "frame_rate_code", d.FrameRateCode, false)
	xmldoc.SetBoolAttribute(e, "MPEG_1_only", d.MPEG1Only)
	xmldoc.SetBoolAttribute(e, "constrained_parameter", d.ConstrainedParameter)
	xmldoc.SetBoolAttribute(e, "still_picture", d.StillPicture)
	if d.MPEG1Only {
		return
	}
	xmldoc.SetIntAttribute(e, "profile_and_level_indication", d.ProfileLevel, true)
	xmldoc.SetIntAttribute(e, "chroma_format", d.ChromaFormat, false)
	xmldoc.SetBoolAttribute(e, "frame_rate_extension", d.FrameRateExtension)
}

func (d *VideoStream) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.MultipleFrameRate, err = xmldoc.GetBoolAttribute(e, "multiple_frame_rate", true, false)
	errs.Add(err)
	d.FrameRateCode, err = xmldoc.GetIntAttribute[uint8](e, "frame_rate_code", true, 0, 0, 0x0F)
	errs.Add(err)
	d.MPEG1Only, err = xmldoc.GetBoolAttribute(e, "MPEG_1_only", true, false)
	errs.Add(err)
	d.ConstrainedParameter, err = xmldoc.GetBoolAttribute(e, "constrained_parameter", true, false)
	errs.Add(err)
	d.StillPicture, err = xmldoc.GetBoolAttribute(e, "still_picture", true, false)
	errs.Add(err)
	d.ProfileLevel, err = xmldoc.GetIntAttribute[uint8](e, "profile_and_level_indication", !d.MPEG1Only, 0, 0, 0xFF)
	errs.Add(err)
	d.ChromaFormat, err = xmldoc.GetIntAttribute[uint8](e, "chroma_format", !d.MPEG1Only, 0, 0, 3)
	errs.Add(err)
	d.FrameRateExtension, err = xmldoc.GetBoolAttribute(e, "frame_rate_extension", !d.MPEG1Only, false)
	errs.Add(err)
	return errs.Err()
}

func displayVideoStream(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(1) {
		return
	}
	multiple := b.GetBit()
	rate := int64(b.GetBits(4))
	mpeg1 := b.GetBit()
	constrained := b.GetBit()
	still := b.GetBit()
	fmt.Fprintf(w, "%sMultiple frame rate: %t, frame rate: %s\n", margin, multiple, FrameRateNames.Display(rate, 1))
	fmt.Fprintf(w, "%sMPEG-1 only: %t, constrained parameter: %t, still picture: %t\n", margin, mpeg1, constrained, still)
	if mpeg1 || !b.CanReadBytes(2) {
		return
	}
	pl := b.GetUint8()
	chroma := int64(b.GetBits(2))
	ext := b.GetBit()
	b.SkipReservedBits(5)
	fmt.Fprintf(w, "%sProfile and level: %s, chroma format: %s\n", margin, names.Hex(pl, 2), ChromaFormatNames.Display(chroma, 1))
	fmt.Fprintf(w, "%sFrame rate extension: %t\n", margin, ext)
}
