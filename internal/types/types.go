package types

// SegmentRole says which end of the source a segment was cut from.
type SegmentRole string

const (
	RoleIntro SegmentRole = "intro"
	RoleOutro SegmentRole = "outro"
)

// EncodeParams are the lossy preprocessing knobs for segment encoding.
// Zero values mean "use the default".
type EncodeParams struct {
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
	CRF    int `yaml:"crf"`
}

const (
	DefaultHeight = 120
	DefaultFPS    = 5
	DefaultCRF    = 28
)

// WithDefaults fills unset fields with the stated defaults.
func (p EncodeParams) WithDefaults() EncodeParams {
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}
	if p.FPS <= 0 {
		p.FPS = DefaultFPS
	}
	if p.CRF <= 0 {
		p.CRF = DefaultCRF
	}
	return p
}

// EncodedSegment is a derived, ephemeral media artifact. The file at Path
// is owned by the caller; the pipeline never deletes it.
type EncodedSegment struct {
	Path     string
	Role     SegmentRole
	Duration int // seconds of source covered by the segment
	Params   EncodeParams
}

// Detection is a single-timestamp vision result.
type Detection struct {
	Timestamp  string  `json:"timestamp"`
	Confidence float64 `json:"confidence"`
	Cost       float64 `json:"cost"`
	TokensUsed int     `json:"tokens_used"`
}

// IntroBounds is the paired intro start/end vision result.
type IntroBounds struct {
	IntroStart string  `json:"intro_start"`
	IntroEnd   string  `json:"intro_end"`
	Confidence float64 `json:"confidence"`
	Cost       float64 `json:"cost"`
	TokensUsed int     `json:"tokens_used"`
}

// OutroResult is an outro detection reconciled into the source timeline.
// RelativeTimestamp is kept alongside the absolute value for audit.
type OutroResult struct {
	Timestamp         string  `json:"timestamp"`
	RelativeTimestamp string  `json:"relative_timestamp"`
	AbsoluteSeconds   int     `json:"absolute_seconds"`
	Confidence        float64 `json:"confidence"`
	Cost              float64 `json:"cost"`
	TokensUsed        int     `json:"tokens_used"`
}

// VideoFileInfo is the source video snapshot embedded in a report.
type VideoFileInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// AnalysisReport is the final persisted entity. Fields extracted from the
// summary text are pointers: a missing field is recorded as null, not an
// error.
type AnalysisReport struct {
	IntroStartTime    *string       `json:"intro_start_time"`
	IntroEndTime      *string       `json:"intro_end_time"`
	OutroStartTime    *string       `json:"outro_start_time"`
	TotalCost         *float64      `json:"total_cost"`
	IntroConfidence   *float64      `json:"intro_confidence"`
	OutroConfidence   *float64      `json:"outro_confidence"`
	AnalysisTimestamp string        `json:"analysis_timestamp"`
	VideoFile         VideoFileInfo `json:"video_file"`
}
