package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/gopxl/beep/v2"
)

// writeOggPage writes a page holding complete packets.
func writeOggPage(w *bytes.Buffer, flags byte, packets ...[]byte) {
	var segments, body []byte
	for _, pkt := range packets {
		remaining := len(pkt)
		for remaining >= 255 {
			segments = append(segments, 255)
			remaining -= 255
		}
		segments = append(segments, byte(remaining))
		body = append(body, pkt...)
	}
	writeOggPageSegments(w, flags, segments, body)
}

// writeOggPageSegments writes a page with an explicit segment table.
func writeOggPageSegments(w *bytes.Buffer, flags byte, segments, body []byte) {
	w.WriteString("OggS")
	w.WriteByte(0) // version
	w.WriteByte(flags)
	_ = binary.Write(w, binary.LittleEndian, int64(0))  // granule
	_ = binary.Write(w, binary.LittleEndian, uint32(1)) // serial
	_ = binary.Write(w, binary.LittleEndian, uint32(0)) // sequence
	_ = binary.Write(w, binary.LittleEndian, uint32(0)) // checksum
	w.WriteByte(byte(len(segments)))
	w.Write(segments)
	w.Write(body)
}

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestParseOggPageHeader(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, []byte("abc"))

	hdr, err := parseOggPageHeader(&buf)
	if err != nil {
		t.Fatalf("parseOggPageHeader() error = %v", err)
	}
	if hdr.HeaderType != oggBOS {
		t.Errorf("HeaderType = %#x, want %#x", hdr.HeaderType, oggBOS)
	}
	if hdr.SerialNumber != 1 {
		t.Errorf("SerialNumber = %d, want 1", hdr.SerialNumber)
	}
	if len(hdr.SegmentTable) != 1 || hdr.SegmentTable[0] != 3 {
		t.Errorf("SegmentTable = %v, want [3]", hdr.SegmentTable)
	}
}

func TestParseOggPageHeader_Invalid(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, 0, []byte("abc"))
	page := buf.Bytes()

	badMagic := append([]byte("OggX"), page[4:]...)
	if _, err := parseOggPageHeader(bytes.NewReader(badMagic)); !errors.Is(err, errInvalidOggMagic) {
		t.Errorf("bad magic: error = %v, want %v", err, errInvalidOggMagic)
	}

	badVersion := bytes.Clone(page)
	badVersion[4] = 1
	if _, err := parseOggPageHeader(bytes.NewReader(badVersion)); !errors.Is(err, errInvalidOggVersion) {
		t.Errorf("bad version: error = %v, want %v", err, errInvalidOggVersion)
	}
}

func TestOggPacketReader(t *testing.T) {
	t.Run("several packets per page", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPage(&buf, oggBOS, []byte("one"), []byte("two"))
		writeOggPage(&buf, 0, []byte("three"))

		r := newOggPacketReader(&buf)
		want := []oggPacket{
			{Data: []byte("one"), BOS: true},
			{Data: []byte("two")},
			{Data: []byte("three")},
		}
		for i, w := range want {
			got, err := r.Next()
			if err != nil {
				t.Fatalf("Next() #%d error = %v", i, err)
			}
			if !bytes.Equal(got.Data, w.Data) || got.BOS != w.BOS {
				t.Errorf("Next() #%d = {%q %v}, want {%q %v}", i, got.Data, got.BOS, w.Data, w.BOS)
			}
		}
		if _, err := r.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("Next() at end error = %v, want io.EOF", err)
		}
	})

	t.Run("packet spanning pages", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPageSegments(&buf, 0, []byte{255, 255}, filled(510, 'a'))
		writeOggPageSegments(&buf, oggContinued, []byte{40}, filled(40, 'b'))

		got, err := newOggPacketReader(&buf).Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		want := append(filled(510, 'a'), filled(40, 'b')...)
		if !bytes.Equal(got.Data, want) {
			t.Errorf("packet length %d, want %d", len(got.Data), len(want))
		}
	})

	t.Run("packet of exactly 255 bytes", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPage(&buf, 0, filled(255, 'x'), []byte("y"))

		r := newOggPacketReader(&buf)
		first, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if len(first.Data) != 255 {
			t.Errorf("first packet length %d, want 255", len(first.Data))
		}
		second, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if string(second.Data) != "y" {
			t.Errorf("second packet = %q, want %q", second.Data, "y")
		}
	})

	t.Run("orphaned partial is dropped", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPageSegments(&buf, 0, []byte{255}, filled(255, 'a'))
		writeOggPage(&buf, 0, []byte("fresh"))

		got, err := newOggPacketReader(&buf).Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if string(got.Data) != "fresh" {
			t.Errorf("Next() = %q, want %q", got.Data, "fresh")
		}
	})

	t.Run("truncated body", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPage(&buf, 0, []byte("abcdef"))
		truncated := buf.Bytes()[:buf.Len()-2]

		_, err := newOggPacketReader(bytes.NewReader(truncated)).Next()
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("Next() error = %v, want io.ErrUnexpectedEOF", err)
		}
	})
}

// fakeOggCodec turns each packet byte into one frame of that value.
// Identification packet: "FAKE" channels preSkip rateKHz. One header follows.
type fakeOggCodec struct {
	channels int
	preSkip  int
	rate     int
}

var errFakeCorrupt = errors.New("corrupt packet")

func detectFakeCodec(ident []byte) (OggCodec, error) {
	if len(ident) != 7 || string(ident[:4]) != "FAKE" {
		return nil, errUnknownOggCodec
	}
	return &fakeOggCodec{
		channels: int(ident[4]),
		preSkip:  int(ident[5]),
		rate:     int(ident[6]) * 1000,
	}, nil
}

func fakeIdent(channels, preSkip, rateKHz byte) []byte {
	return []byte{'F', 'A', 'K', 'E', channels, preSkip, rateKHz}
}

func (c *fakeOggCodec) SampleRate() int { return c.rate }
func (c *fakeOggCodec) Channels() int   { return c.channels }
func (c *fakeOggCodec) PreSkip() int    { return c.preSkip }

func (c *fakeOggCodec) AddHeaderPacket([]byte) (bool, error) { return true, nil }

func (c *fakeOggCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if len(packet) > 0 && packet[0] == 0xFF {
		return 0, errFakeCorrupt
	}
	for i, b := range packet {
		for ch := range c.channels {
			pcm[i*c.channels+ch] = float32(b) / 100
		}
	}
	return len(packet), nil
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

// drain streams everything in small chunks and returns the left channel.
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 2)
	for range 1000 {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if smp[0] != smp[1] {
				t.Fatalf("channels differ: %v", smp)
			}
			out = append(out, smp[0]*100)
		}
		if !ok {
			return out
		}
	}
	t.Fatal("stream never ended")
	return nil
}

func assertSamples(t *testing.T, got []float64, want ...float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d samples %v, want %v", len(got), got, want)
	}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-4 || d < -1e-4 {
			t.Fatalf("sample %d = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestOggDecoder_Streams(t *testing.T) {
	tests := []struct {
		name     string
		channels byte
		preSkip  byte
		want     []float64
	}{
		{name: "mono", channels: 1, want: []float64{1, 2, 3, 4, 5}},
		{name: "stereo", channels: 2, want: []float64{1, 2, 3, 4, 5}},
		{name: "pre-skip spans packets", channels: 2, preSkip: 4, want: []float64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeOggPage(&buf, oggBOS, fakeIdent(tt.channels, tt.preSkip, 48))
			writeOggPage(&buf, 0, []byte("tags"))
			writeOggPage(&buf, 0, []byte{1, 2, 3}, []byte{4})
			writeOggPage(&buf, 0, []byte{5})

			d, format, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
			if err != nil {
				t.Fatalf("newOggDecoder() error = %v", err)
			}
			if format.SampleRate != 48000 || format.NumChannels != int(tt.channels) {
				t.Errorf("format = %+v", format)
			}

			assertSamples(t, drain(t, d), tt.want...)
			if d.Err() != nil {
				t.Errorf("Err() = %v, want nil", d.Err())
			}
		})
	}
}

func TestOggDecoder_SkipsCorruptPackets(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, fakeIdent(1, 0, 44))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{1}, []byte{0xFF, 9}, []byte{2})

	d, _, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
	if err != nil {
		t.Fatalf("newOggDecoder() error = %v", err)
	}
	assertSamples(t, drain(t, d), 1, 2)
}

func TestOggDecoder_FollowsChainedStream(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, fakeIdent(2, 0, 48))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{1, 2})
	// Next track: new logical stream with its own pre-skip.
	writeOggPage(&buf, oggBOS, fakeIdent(2, 1, 48))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{3, 4})

	d, _, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
	if err != nil {
		t.Fatalf("newOggDecoder() error = %v", err)
	}
	assertSamples(t, drain(t, d), 1, 2, 4)
	if d.Err() != nil {
		t.Errorf("Err() = %v, want nil", d.Err())
	}
}

func TestOggDecoder_ChainedFormatChangeFails(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, fakeIdent(2, 0, 48))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{1})
	writeOggPage(&buf, oggBOS, fakeIdent(2, 0, 44))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{2})

	d, _, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
	if err != nil {
		t.Fatalf("newOggDecoder() error = %v", err)
	}
	assertSamples(t, drain(t, d), 1)
	if !errors.Is(d.Err(), errOggFormatChanged) {
		t.Errorf("Err() = %v, want %v", d.Err(), errOggFormatChanged)
	}
}

func TestOggDecoder_TruncatedStreamReportsError(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, fakeIdent(1, 0, 48))
	writeOggPage(&buf, 0, []byte("tags"))
	writeOggPage(&buf, 0, []byte{1, 2, 3})
	data := buf.Bytes()[:buf.Len()-1]

	d, _, err := newOggDecoder(&closeRecorder{Reader: bytes.NewReader(data)}, detectFakeCodec)
	if err != nil {
		t.Fatalf("newOggDecoder() error = %v", err)
	}
	drain(t, d)
	if !errors.Is(d.Err(), io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want io.ErrUnexpectedEOF", d.Err())
	}
}

func TestOggDecoder_HeaderErrors(t *testing.T) {
	t.Run("unknown codec", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPage(&buf, oggBOS, []byte("mystery"))
		_, _, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
		if !errors.Is(err, errUnknownOggCodec) {
			t.Errorf("error = %v, want %v", err, errUnknownOggCodec)
		}
	})

	t.Run("missing headers", func(t *testing.T) {
		var buf bytes.Buffer
		writeOggPage(&buf, oggBOS, fakeIdent(1, 0, 48))
		_, _, err := newOggDecoder(&closeRecorder{Reader: &buf}, detectFakeCodec)
		if !errors.Is(err, io.EOF) {
			t.Errorf("error = %v, want io.EOF", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		_, _, err := decodeOgg(&closeRecorder{Reader: bytes.NewReader(nil)})
		if !errors.Is(err, io.EOF) {
			t.Errorf("error = %v, want io.EOF", err)
		}
	})
}

func TestOggDecoder_CloseClosesBody(t *testing.T) {
	var buf bytes.Buffer
	writeOggPage(&buf, oggBOS, fakeIdent(1, 0, 48))
	writeOggPage(&buf, 0, []byte("tags"))
	body := &closeRecorder{Reader: &buf}

	d, _, err := newOggDecoder(body, detectFakeCodec)
	if err != nil {
		t.Fatalf("newOggDecoder() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !body.closed {
		t.Error("body not closed")
	}
}
