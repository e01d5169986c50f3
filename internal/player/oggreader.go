package player

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

// Page header type flags.
const (
	oggContinued byte = 0x01
	oggBOS       byte = 0x02
)

// oggPageHeader represents the header of an Ogg page.
type oggPageHeader struct {
	HeaderType   byte
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	SegmentTable []uint8
}

// parseOggPageHeader reads and parses an Ogg page header from the reader.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}

	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		HeaderType:   buf[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])),
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
		// checksum at buf[22:26] is not verified
	}

	if n := int(buf[26]); n > 0 {
		hdr.SegmentTable = make([]uint8, n)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}

	return hdr, nil
}

// oggPacket is one reassembled packet. BOS marks the first packet of a new
// logical stream, which is how Icecast chains tracks.
type oggPacket struct {
	Data []byte
	BOS  bool
}

// oggPacketReader reassembles packets from a forward-only Ogg stream.
// Packets may span pages.
type oggPacketReader struct {
	r       io.Reader
	partial []byte
	pending []oggPacket
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: r}
}

// Next returns the next complete packet. io.EOF means the stream ended on
// a page boundary.
func (p *oggPacketReader) Next() (oggPacket, error) {
	for len(p.pending) == 0 {
		if err := p.readPage(); err != nil {
			return oggPacket{}, err
		}
	}
	pkt := p.pending[0]
	p.pending = p.pending[1:]
	return pkt, nil
}

func (p *oggPacketReader) readPage() error {
	hdr, err := parseOggPageHeader(p.r)
	if err != nil {
		return err
	}

	size := 0
	for _, seg := range hdr.SegmentTable {
		size += int(seg)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(p.r, body); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	// A page that does not continue a packet orphans any partial one.
	if hdr.HeaderType&oggContinued == 0 {
		p.partial = nil
	}
	bos := hdr.HeaderType&oggBOS != 0

	offset := 0
	for _, seg := range hdr.SegmentTable {
		p.partial = append(p.partial, body[offset:offset+int(seg)]...)
		offset += int(seg)
		if seg < 255 {
			p.pending = append(p.pending, oggPacket{Data: p.partial, BOS: bos})
			p.partial = nil
			bos = false
		}
	}
	return nil
}
