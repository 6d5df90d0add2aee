package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs ffprobe (binary) against path and returns the parsed result.
func Probe(ctx context.Context, binary, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	BitRate     string            `json:"bit_rate"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		Format: FormatInfo{
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
		},
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			vs := convertVideo(s)
			if !vs.IsAttachedPic && r.Video == nil {
				r.Video = &vs
			}
		case "audio":
			r.AudioCount++
		}
	}
	return r
}

func convertVideo(s *ffprobeStream) VideoStream {
	return VideoStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Width:         s.Width,
		Height:        s.Height,
		BitRate:       streamBitRate(s),
		IsAttachedPic: s.Disposition["attached_pic"] == 1,
	}
}

// streamBitRate prefers the stream's bit_rate and falls back to the BPS tag
// that mkvmerge writes (Matroska streams usually lack bit_rate).
func streamBitRate(s *ffprobeStream) int64 {
	if br := parseInt64(s.BitRate); br > 0 {
		return br
	}
	return parseInt64(s.Tags["BPS"])
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
