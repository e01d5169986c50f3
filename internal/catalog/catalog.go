// Package catalog holds the fixed, ordered list of ambient streams.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a stream id is outside the catalog.
	ErrNotFound = errors.New("stream not found")
	// ErrInvalidCatalog is returned when streams are empty or ids are not dense.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Stream is one playable internet audio stream.
type Stream struct {
	ID          int
	URL         string
	Title       string
	Description string
	Artwork     string
}

// Catalog is an immutable ordered list of streams indexed by id.
// Safe for concurrent use.
type Catalog struct {
	streams []Stream
}

// New builds a catalog. Stream ids must equal their position.
func New(streams []Stream) (*Catalog, error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("%w: no streams", ErrInvalidCatalog)
	}
	for i, s := range streams {
		if s.ID != i {
			return nil, fmt.Errorf("%w: stream %q has id %d at position %d", ErrInvalidCatalog, s.Title, s.ID, i)
		}
		if s.URL == "" {
			return nil, fmt.Errorf("%w: stream %d has no url", ErrInvalidCatalog, i)
		}
	}
	c := &Catalog{streams: make([]Stream, len(streams))}
	copy(c.streams, streams)
	return c, nil
}

// Len returns the number of streams.
func (c *Catalog) Len() int {
	return len(c.streams)
}

// Get returns the stream with the given id.
func (c *Catalog) Get(id int) (Stream, error) {
	if id < 0 || id >= len(c.streams) {
		return Stream{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return c.streams[id], nil
}

// Next returns the stream after id, wrapping to the first.
func (c *Catalog) Next(id int) (Stream, error) {
	if _, err := c.Get(id); err != nil {
		return Stream{}, err
	}
	return c.streams[(id+1)%len(c.streams)], nil
}

// Previous returns the stream before id, wrapping to the last.
func (c *Catalog) Previous(id int) (Stream, error) {
	if _, err := c.Get(id); err != nil {
		return Stream{}, err
	}
	n := len(c.streams)
	return c.streams[(id-1+n)%n], nil
}

// All returns a copy of every stream in order.
func (c *Catalog) All() []Stream {
	out := make([]Stream, len(c.streams))
	copy(out, c.streams)
	return out
}

// FromEntries assigns ids by position.
func FromEntries(entries []Stream) (*Catalog, error) {
	streams := make([]Stream, len(entries))
	for i, e := range entries {
		e.ID = i
		streams[i] = e
	}
	return New(streams)
}
