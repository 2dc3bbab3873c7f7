package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bjarlestam/credit-scout/internal/types"
)

var ErrInvalidFormat = errors.New("invalid timestamp format")

// Parse converts an "MM:SS" timestamp into seconds. Exactly two numeric
// colon-separated fields are accepted; anything else is a hard failure.
func Parse(ts string) (int, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, ts)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, ts)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, ts)
	}
	return minutes*60 + seconds, nil
}

// Format renders seconds as a zero-padded "MM:SS" string. Minutes grow
// past two digits for long features rather than rolling into hours.
func Format(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ReconcileOutro converts a credits-start timestamp relative to the outro
// segment into an absolute position in the source timeline.
//
// The segment covers the trailing segmentDuration seconds of the source,
// so its start is totalDuration-segmentDuration. When the segment is
// longer than the whole video the encoder has already clamped the window
// to the start of file, so the segment start clamps to 0 here too.
func ReconcileOutro(totalDuration, segmentDuration int, relative types.Detection) (types.OutroResult, error) {
	relativeSeconds, err := Parse(relative.Timestamp)
	if err != nil {
		return types.OutroResult{}, err
	}

	segmentStart := totalDuration - segmentDuration
	if segmentStart < 0 {
		segmentStart = 0
	}
	absoluteSeconds := segmentStart + relativeSeconds

	return types.OutroResult{
		Timestamp:         Format(absoluteSeconds),
		RelativeTimestamp: relative.Timestamp,
		AbsoluteSeconds:   absoluteSeconds,
		Confidence:        relative.Confidence,
		Cost:              relative.Cost,
		TokensUsed:        relative.TokensUsed,
	}, nil
}
