package player

import (
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate = 48000
	// Largest decoded frame per channel: 120ms of Opus at 48kHz is 5760,
	// the largest Vorbis block is 8192.
	oggMaxFrame = 8192
)

var (
	errUnknownOggCodec     = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidVorbisHeader = errors.New("vorbis: invalid identification header")
	errInvalidOpusHead     = errors.New("opus: invalid OpusHead packet")
	errUnsupportedOpus     = errors.New("opus: unsupported version")
)

// OggCodec handles codec-specific initialization and decoding for Ogg streams.
type OggCodec interface {
	SampleRate() int
	Channels() int

	// PreSkip returns samples per channel to drop at stream start (0 for Vorbis).
	PreSkip() int

	// AddHeaderPacket feeds the header packets that follow the
	// identification packet. Returns true once all headers are in.
	AddHeaderPacket(packet []byte) (complete bool, err error)

	// Decode decodes a packet into interleaved PCM and returns the number
	// of samples per channel.
	Decode(packet []byte, pcm []float32) (samplesPerChannel int, err error)
}

// detectOggCodec detects the codec from the identification packet of a
// logical stream.
func detectOggCodec(firstPacket []byte) (OggCodec, error) {
	if len(firstPacket) >= 8 && string(firstPacket[:8]) == "OpusHead" {
		return newOpusCodec(firstPacket)
	}
	if len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis" {
		return newVorbisCodec(firstPacket)
	}
	return nil, errUnknownOggCodec
}

// opusCodec implements OggCodec for Opus streams.
type opusCodec struct {
	decoder  *opus.Decoder
	channels int
	preSkip  int
}

func newOpusCodec(packet []byte) (*opusCodec, error) {
	// "OpusHead" version channels pre-skip(2) rate(4) gain(2) mapping(1)
	if len(packet) < 19 {
		return nil, errInvalidOpusHead
	}
	if packet[8] != 1 {
		return nil, errUnsupportedOpus
	}

	channels := int(packet[9])
	if channels < 1 || channels > 2 {
		return nil, errInvalidOpusHead
	}

	decoder, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}

	return &opusCodec{
		decoder:  decoder,
		channels: channels,
		preSkip:  int(binary.LittleEndian.Uint16(packet[10:12])),
	}, nil
}

// SampleRate returns 48000; Opus always decodes at 48kHz.
func (c *opusCodec) SampleRate() int { return opusSampleRate }

func (c *opusCodec) Channels() int { return c.channels }

func (c *opusCodec) PreSkip() int { return c.preSkip }

// AddHeaderPacket consumes the OpusTags packet.
func (c *opusCodec) AddHeaderPacket(_ []byte) (bool, error) {
	return true, nil
}

func (c *opusCodec) Decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

// vorbisCodec implements OggCodec for Vorbis streams.
type vorbisCodec struct {
	decoder       *vorbis.Decoder
	channels      int
	sampleRate    int
	headerPackets [][]byte
}

func newVorbisCodec(packet []byte) (*vorbisCodec, error) {
	// [0] type, [1:7] "vorbis", [7:11] version, [11] channels, [12:16] rate
	if len(packet) < 16 {
		return nil, errInvalidVorbisHeader
	}
	if binary.LittleEndian.Uint32(packet[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}
	channels := int(packet[11])
	if channels == 0 {
		return nil, errInvalidVorbisHeader
	}

	ident := make([]byte, len(packet))
	copy(ident, packet)

	return &vorbisCodec{
		channels:      channels,
		sampleRate:    int(binary.LittleEndian.Uint32(packet[12:16])),
		headerPackets: [][]byte{ident},
	}, nil
}

func (c *vorbisCodec) SampleRate() int { return c.sampleRate }

func (c *vorbisCodec) Channels() int { return c.channels }

func (c *vorbisCodec) PreSkip() int { return 0 }

var (
	errVorbisDecoderNotInitialized = errors.New("vorbis: decoder not initialized (headers incomplete)")
	errVorbisBufferTooSmall        = errors.New("vorbis: output buffer too small")
)

// AddHeaderPacket collects the comment and setup headers, then builds the
// decoder from all three.
func (c *vorbisCodec) AddHeaderPacket(packet []byte) (bool, error) {
	if c.decoder != nil {
		return true, nil
	}

	hdr := make([]byte, len(packet))
	copy(hdr, packet)
	c.headerPackets = append(c.headerPackets, hdr)
	if len(c.headerPackets) < 3 {
		return false, nil
	}

	decoder := &vorbis.Decoder{}
	for _, h := range c.headerPackets {
		if err := decoder.ReadHeader(h); err != nil {
			return false, err
		}
	}
	c.decoder = decoder
	c.headerPackets = nil
	return true, nil
}

func (c *vorbisCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if c.decoder == nil {
		return 0, errVorbisDecoderNotInitialized
	}
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(samples) {
		return 0, errVorbisBufferTooSmall
	}
	n := copy(pcm, samples)
	return n / c.channels, nil
}
