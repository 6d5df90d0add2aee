package probe

import "fmt"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	FormatName string
	Duration   float64 // seconds
	Size       int64   // bytes
	BitRate    int64   // bits/sec
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Width         int
	Height        int
	BitRate       int64
	IsAttachedPic bool
}

// Result is the parsed output of a single ffprobe JSON call. Video is the
// first non-attached-pic video stream (nil if none).
type Result struct {
	Format     FormatInfo
	Video      *VideoStream
	AudioCount int
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (r *Result) Resolution() string {
	if r.Video == nil || r.Video.Width <= 0 || r.Video.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", r.Video.Width, r.Video.Height)
}

// VideoBitRate returns the primary video bitrate in bits/sec, falling back
// to the format-level bitrate when the stream value is unavailable.
func (r *Result) VideoBitRate() int64 {
	if r.Video != nil && r.Video.BitRate > 0 {
		return r.Video.BitRate
	}
	return r.Format.BitRate
}
