package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

const pumpChunk = 512

// pump decodes on its own goroutine so network stalls never block the
// speaker. Underruns are filled with silence until the decoder ends.
type pump struct {
	src  beep.StreamCloser
	ch   chan [][2]float64
	stop chan struct{}
	err  error // written before ch is closed

	cur      [][2]float64
	drained  bool
	stopOnce sync.Once
}

func newPump(src beep.StreamCloser, depth int) *pump {
	if depth < 1 {
		depth = 1
	}
	p := &pump{
		src:  src,
		ch:   make(chan [][2]float64, depth),
		stop: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *pump) run() {
	defer close(p.ch)
	for {
		buf := make([][2]float64, pumpChunk)
		n, ok := p.src.Stream(buf)
		if n > 0 {
			select {
			case p.ch <- buf[:n]:
			case <-p.stop:
				return
			}
		}
		if !ok {
			p.err = p.src.Err()
			return
		}
	}
}

// Stream implements beep.Streamer. Called under the speaker lock.
func (p *pump) Stream(samples [][2]float64) (n int, ok bool) {
	if p.drained {
		return 0, false
	}
	for n < len(samples) {
		if len(p.cur) == 0 {
			select {
			case chunk, open := <-p.ch:
				if !open {
					p.drained = true
					return n, n > 0
				}
				p.cur = chunk
			default:
				// Underrun: pad with silence and keep the stream alive.
				clear(samples[n:])
				return len(samples), true
			}
		}
		c := copy(samples[n:], p.cur)
		p.cur = p.cur[c:]
		n += c
	}
	return n, true
}

// Err returns the decoder error once Stream has reported the end.
func (p *pump) Err() error {
	if !p.drained {
		return nil
	}
	return p.err
}

func (p *pump) Close() error {
	p.stopOnce.Do(func() { close(p.stop) })
	return p.src.Close()
}
