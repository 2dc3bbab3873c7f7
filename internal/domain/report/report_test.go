package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bjarlestam/credit-scout/internal/types"
)

func TestParse_TypicalAgentSummary(t *testing.T) {
	summary := strings.Join([]string{
		"Here is the full analysis of your movie:",
		"**Intro ends at:** 01:09",
		"**Outro starts at:** 09:49",
		"**Total analysis cost:** $0.2967",
		"Intro end detection confidence: 1.0",
		"Outro start detection confidence: 1.0",
	}, "\n")

	got := Parse(summary, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	require.Nil(t, got.IntroStartTime)
	require.NotNil(t, got.IntroEndTime)
	require.Equal(t, "01:09", *got.IntroEndTime)
	require.NotNil(t, got.OutroStartTime)
	require.Equal(t, "09:49", *got.OutroStartTime)
	require.NotNil(t, got.TotalCost)
	require.Equal(t, 0.2967, *got.TotalCost)
	require.NotNil(t, got.IntroConfidence)
	require.Equal(t, 1.0, *got.IntroConfidence)
	require.NotNil(t, got.OutroConfidence)
	require.Equal(t, 1.0, *got.OutroConfidence)
}

func TestParse_PlainTextVariants(t *testing.T) {
	summary := strings.Join([]string{
		"intro starts at 00:00",
		"intro ends at 01:30",
		"outro starts at 112:40",
		"total cost: 0.31",
	}, "\n")

	got := Parse(summary, time.Now())

	require.NotNil(t, got.IntroStartTime)
	require.Equal(t, "00:00", *got.IntroStartTime)
	require.NotNil(t, got.IntroEndTime)
	require.Equal(t, "01:30", *got.IntroEndTime)
	require.NotNil(t, got.OutroStartTime)
	require.Equal(t, "112:40", *got.OutroStartTime)
	require.NotNil(t, got.TotalCost)
	require.Equal(t, 0.31, *got.TotalCost)
}

func TestParse_NoRecognizableFields(t *testing.T) {
	got := Parse("the model had nothing useful to say", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	require.Nil(t, got.IntroStartTime)
	require.Nil(t, got.IntroEndTime)
	require.Nil(t, got.OutroStartTime)
	require.Nil(t, got.TotalCost)
	require.Nil(t, got.IntroConfidence)
	require.Nil(t, got.OutroConfidence)
	require.Equal(t, "2026-08-31T12:00:00Z", got.AnalysisTimestamp)
}

func TestSave_WritesTimestampedReport(t *testing.T) {
	tmp := t.TempDir()
	video := filepath.Join(tmp, "black_bear.mp4")
	require.NoError(t, os.WriteFile(video, []byte("0123456789"), 0o644))

	outDir := filepath.Join(tmp, "reports")
	now := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)

	path, err := Save(video, "**Intro ends at:** 01:09", outDir, now)
	require.NoError(t, err)

	base := filepath.Base(path)
	require.Equal(t, "black_bear_analysis_20260831_140509.json", base)
	require.Regexp(t, regexp.MustCompile(`^black_bear_analysis_\d{8}_\d{6}\.json$`), base)
	require.Equal(t, outDir, filepath.Dir(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.AnalysisReport
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "black_bear.mp4", got.VideoFile.Name)
	require.Equal(t, int64(10), got.VideoFile.SizeBytes)
	require.True(t, filepath.IsAbs(got.VideoFile.Path))
	require.NotNil(t, got.IntroEndTime)
	require.Equal(t, "01:09", *got.IntroEndTime)
}

func TestSave_MissingVideo(t *testing.T) {
	_, err := Save(filepath.Join(t.TempDir(), "missing.mp4"), "summary", "", time.Now())
	require.Error(t, err)
}

func TestSave_LeavesNoTempFilesBehind(t *testing.T) {
	tmp := t.TempDir()
	video := filepath.Join(tmp, "movie.mp4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))

	_, err := Save(video, "summary", tmp, time.Now())
	require.NoError(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasPrefix(e.Name(), ".report-"), "stray temp file %s", e.Name())
	}
}
