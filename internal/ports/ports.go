package ports

import (
	"context"

	"github.com/bjarlestam/credit-scout/internal/types"
)

type MediaTool interface {
	ProbeDuration(ctx context.Context, videoPath string) (int, error)
	EncodeSegment(ctx context.Context, videoPath string, role types.SegmentRole, duration int, params types.EncodeParams) (types.EncodedSegment, error)
}

type VisionDetector interface {
	DetectIntroEnd(ctx context.Context, segmentPath string) (types.Detection, error)
	DetectIntroBounds(ctx context.Context, segmentPath string) (types.IntroBounds, error)
	DetectCreditsStart(ctx context.Context, segmentPath string) (types.Detection, error)
}
