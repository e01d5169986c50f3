package player

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
)

type codec int

const (
	codecMP3 codec = iota
	codecFLAC
	codecOgg
)

func (c codec) String() string {
	switch c {
	case codecMP3:
		return "mp3"
	case codecFLAC:
		return "flac"
	case codecOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// detectCodec picks a decoder from the response content type, falling back
// to the URL extension. Icecast servers commonly send audio/mpeg.
func detectCodec(contentType, rawURL string) codec {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "audio/flac", "audio/x-flac":
			return codecFLAC
		case "audio/ogg", "application/ogg", "audio/opus", "audio/vorbis":
			return codecOgg
		case "audio/mpeg", "audio/mp3", "audio/x-mpeg":
			return codecMP3
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".flac":
			return codecFLAC
		case ".ogg", ".oga", ".opus":
			return codecOgg
		}
	}
	return codecMP3
}

func decode(rc io.ReadCloser, c codec) (beep.StreamCloser, beep.Format, error) {
	switch c {
	case codecFLAC:
		s, format, err := flac.Decode(rc)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode flac: %w", err)
		}
		return s, format, nil
	case codecOgg:
		s, format, err := decodeOgg(rc)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode ogg: %w", err)
		}
		return s, format, nil
	default:
		s, format, err := decodeGoMP3(rc)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode mp3: %w", err)
		}
		return s, format, nil
	}
}
