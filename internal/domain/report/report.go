package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/bjarlestam/credit-scout/internal/domain/asset"
	"github.com/bjarlestam/credit-scout/internal/types"
)

// The orchestrator's summary is free text produced by a language model,
// so extraction is tolerant by design: case-insensitive, optional
// markdown emphasis, absent fields stay null.
var (
	introStartRE = regexp.MustCompile(`(?i)(?:\*\*)?Intro starts at:?\*?\*?\s*(\d{1,2}:\d{2})`)
	introEndRE   = regexp.MustCompile(`(?i)(?:\*\*)?Intro ends at:?\*?\*?\s*(\d{1,2}:\d{2})`)
	// Outro timestamps are absolute, so minutes can run to three digits.
	outroStartRE = regexp.MustCompile(`(?i)(?:\*\*)?Outro starts at:?\*?\*?\s*(\d{1,3}:\d{2})`)
	totalCostRE  = regexp.MustCompile(`(?i)(?:\*\*)?Total (?:analysis )?cost:?\*?\*?\s*\$?([\d.]+)`)
	introConfRE  = regexp.MustCompile(`(?i)Intro (?:end )?detection confidence:\s*([\d.]+)`)
	outroConfRE  = regexp.MustCompile(`(?i)Outro start detection confidence:\s*([\d.]+)`)
)

// Parse extracts the structured report fields from a free-text analysis
// summary. Missing fields are left nil; the analysis timestamp is always
// set.
func Parse(summary string, now time.Time) types.AnalysisReport {
	r := types.AnalysisReport{
		AnalysisTimestamp: now.Format(time.RFC3339),
	}

	if m := introStartRE.FindStringSubmatch(summary); m != nil {
		r.IntroStartTime = &m[1]
	}
	if m := introEndRE.FindStringSubmatch(summary); m != nil {
		r.IntroEndTime = &m[1]
	}
	if m := outroStartRE.FindStringSubmatch(summary); m != nil {
		r.OutroStartTime = &m[1]
	}
	if m := totalCostRE.FindStringSubmatch(summary); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			r.TotalCost = &v
		}
	}
	if m := introConfRE.FindStringSubmatch(summary); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			r.IntroConfidence = &v
		}
	}
	if m := outroConfRE.FindStringSubmatch(summary); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			r.OutroConfidence = &v
		}
	}
	return r
}

// Save parses the summary and writes the report next to the video (or
// into outputDir when given), named <stem>_analysis_<timestamp>.json so
// repeated runs never overwrite prior reports. The returned error is
// informational: the recorder must never take the pipeline down.
func Save(videoPath, summary, outputDir string, now time.Time) (string, error) {
	src, err := asset.Resolve(videoPath)
	if err != nil {
		return "", err
	}

	parsed := Parse(summary, now)
	parsed.VideoFile = types.VideoFileInfo{
		Name:      src.Name(),
		Path:      src.Path,
		SizeBytes: src.Size,
	}

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(src.Path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_analysis_%s.json", src.Stem(), now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	b, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := writeFileAtomic(path, b); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
