// Package ffmpeg builds ffmpeg argument vectors and runs them.
//
// The package is layered bottom-up:
//
//   - OptionMap: ordered flag → value pairs, last write wins.
//   - Builder: owns the input path and an OptionMap pre-seeded with
//     "-c:v libx265"; Output finalizes it into an argv.
//   - Executor: runs the ffmpeg binary with a fixed preamble and streams
//     stdout/stderr to a StreamLogger.
//   - Transcoder: turns a Request into builder calls, logs the command and
//     executes it (or stops there in dry-run mode).
//
// Stderr from failed runs is classified into sentinel errors (errors.go)
// so callers can react with errors.Is.
package ffmpeg
