package mpris

import "github.com/llehouerou/lull/internal/playback"

// Controller is the part of the playback session MPRIS drives.
type Controller interface {
	Play() error
	Stop() error
	Next() error
	Previous() error
	Snapshot() playback.Snapshot
}
