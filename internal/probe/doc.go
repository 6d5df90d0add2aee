// Package probe inspects media files with a single ffprobe JSON call
// (-show_format -show_streams) and reduces the output to what a batch
// needs: container facts, the primary video stream and an audio count.
package probe
