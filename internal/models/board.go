package models

// Cell counts for the two movement loops of the board.
const (
	OuterTrackSize = 44
	InnerTrackSize = 23
)

// TrackSize returns the number of cells on the requested track.
func TrackSize(inner bool) int {
	if inner {
		return InnerTrackSize
	}
	return OuterTrackSize
}

// TrackName returns the wire name for a track.
func TrackName(inner bool) string {
	if inner {
		return "inner"
	}
	return "outer"
}

// WrapPosition normalizes a raw cell index onto the track, wrapping
// past the final cell back to the start.
func WrapPosition(position int, inner bool) int {
	size := TrackSize(inner)
	position %= size
	if position < 0 {
		position += size
	}
	return position
}
