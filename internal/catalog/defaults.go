package catalog

import "fmt"

const (
	somaStream  = "https://ice1.somafm.com/%s-128-mp3"
	somaArtwork = "https://somafm.com/img/%s120.png"
)

type channel struct {
	key         string
	title       string
	description string
}

var defaultChannels = []channel{
	{"dronezone", "Drone Zone", "Atmospheric textures with minimal beats"},
	{"deepspaceone", "Deep Space One", "Deep ambient electronic and space music"},
	{"groovesalad", "Groove Salad", "A nicely chilled plate of ambient beats"},
	{"spacestation", "Space Station", "Spaced-out ambient and mid-tempo electronica"},
	{"synphaera", "Synphaera Radio", "Modern electronic ambient and space music"},
	{"darkzone", "The Dark Zone", "The darker side of deep ambient"},
	{"n5md", "n5MD Radio", "Ambient, modern composition and post-rock"},
	{"missioncontrol", "Mission Control", "Ambient music mixed with NASA mission audio"},
}

// Default returns the built-in stream catalog.
func Default() *Catalog {
	streams := make([]Stream, len(defaultChannels))
	for i, ch := range defaultChannels {
		streams[i] = Stream{
			ID:          i,
			URL:         fmt.Sprintf(somaStream, ch.key),
			Title:       ch.title,
			Description: ch.description,
			Artwork:     fmt.Sprintf(somaArtwork, ch.key),
		}
	}
	c, err := New(streams)
	if err != nil {
		panic(err)
	}
	return c
}
