// Package segment provides parsing and naming helpers for voice-activity
// segment identifiers of the form {video_id}_{index}.
package segment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID indicates a string that does not follow the
// {video_id}_{index} naming scheme.
var ErrInvalidID = errors.New("invalid segment id")

// ID is a parsed segment identifier.
type ID struct {
	VideoID string
	Index   int
}

// Parse splits a segment id into its video id and segment index. The index
// is the digits after the last underscore; everything before it is the video
// id, which may itself contain underscores.
func Parse(raw string) (ID, error) {
	i := strings.LastIndex(raw, "_")
	if i <= 0 || i == len(raw)-1 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	idx, err := strconv.Atoi(raw[i+1:])
	if err != nil || idx < 0 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return ID{VideoID: raw[:i], Index: idx}, nil
}

// String returns the canonical {video_id}_{index} form.
func (id ID) String() string {
	return fmt.Sprintf("%s_%d", id.VideoID, id.Index)
}

// AudioFilename returns the audio artifact name for a segment id.
// ext must include the leading dot, e.g. ".wav".
func AudioFilename(segmentID, ext string) string {
	return segmentID + ext
}
