package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
)

var errOggFormatChanged = errors.New("ogg: chained stream changed sample rate or channels")

// decodeOgg decodes a live Ogg stream (Opus or Vorbis).
func decodeOgg(rc io.ReadCloser) (beep.StreamCloser, beep.Format, error) {
	d, format, err := newOggDecoder(rc, detectOggCodec)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return d, format, nil
}

func newOggDecoder(rc io.ReadCloser, detect func([]byte) (OggCodec, error)) (*oggDecoder, beep.Format, error) {
	packets := newOggPacketReader(rc)
	first, err := packets.Next()
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ogg: read identification packet: %w", err)
	}

	d := &oggDecoder{packets: packets, detect: detect, closer: rc}
	codec, err := d.readHeaders(first.Data)
	if err != nil {
		return nil, beep.Format{}, err
	}
	d.setCodec(codec)

	d.format = beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: min(codec.Channels(), 2),
		Precision:   2,
	}
	return d, d.format, nil
}

// oggDecoder implements beep.StreamCloser over a forward-only Ogg stream.
// Chained logical streams are followed as long as their format matches.
type oggDecoder struct {
	packets *oggPacketReader
	detect  func([]byte) (OggCodec, error)
	codec   OggCodec
	format  beep.Format
	closer  io.Closer

	pcm    []float32
	pcmPos int
	skip   int // samples per channel still to drop
	err    error
}

// readHeaders builds a codec from an identification packet and feeds it the
// following header packets.
func (d *oggDecoder) readHeaders(ident []byte) (OggCodec, error) {
	codec, err := d.detect(ident)
	if err != nil {
		return nil, err
	}
	for {
		pkt, err := d.packets.Next()
		if err != nil {
			return nil, fmt.Errorf("ogg: read header packet: %w", err)
		}
		complete, err := codec.AddHeaderPacket(pkt.Data)
		if err != nil {
			return nil, err
		}
		if complete {
			return codec, nil
		}
	}
}

func (d *oggDecoder) setCodec(codec OggCodec) {
	d.codec = codec
	d.skip = codec.PreSkip()
	d.pcm = make([]float32, oggMaxFrame*codec.Channels())
	d.pcmPos = len(d.pcm)
}

// Stream reads audio samples into the provided buffer.
func (d *oggDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	channels := d.codec.Channels()

	for n < len(samples) {
		if d.pcmPos < len(d.pcm) {
			for n < len(samples) && d.pcmPos < len(d.pcm) {
				left := float64(d.pcm[d.pcmPos])
				right := left
				if channels > 1 {
					right = float64(d.pcm[d.pcmPos+1])
				}
				samples[n] = [2]float64{left, right}
				d.pcmPos += channels
				n++
			}
			continue
		}

		pkt, err := d.packets.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = err
			}
			return n, n > 0
		}

		if pkt.BOS {
			if err := d.chain(pkt.Data); err != nil {
				d.err = err
				return n, n > 0
			}
			channels = d.codec.Channels()
			continue
		}

		frames, err := d.codec.Decode(pkt.Data, d.pcm[:cap(d.pcm)])
		if err != nil {
			continue // skip corrupt packets
		}
		d.pcm = d.pcm[:frames*channels]
		d.pcmPos = 0
		if d.skip > 0 {
			drop := min(d.skip, frames)
			d.skip -= drop
			d.pcmPos = drop * channels
		}
	}

	return n, true
}

// chain switches to the next logical stream.
func (d *oggDecoder) chain(ident []byte) error {
	codec, err := d.readHeaders(ident)
	if err != nil {
		return err
	}
	if beep.SampleRate(codec.SampleRate()) != d.format.SampleRate ||
		min(codec.Channels(), 2) != d.format.NumChannels {
		return errOggFormatChanged
	}
	d.setCodec(codec)
	return nil
}

// Err returns any error that occurred during streaming.
func (d *oggDecoder) Err() error { return d.err }

// Close closes the underlying response body.
func (d *oggDecoder) Close() error {
	return d.closer.Close()
}
