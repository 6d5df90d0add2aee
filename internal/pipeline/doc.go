// Package pipeline transcodes a directory tree: discovery, per-file
// probing and output naming, then one Transcoder run per file.
//
// Outputs mirror the input tree under the output directory with the
// configured container as extension. Files smaller than 1000 bytes fail,
// files without a video stream are skipped, and existing outputs are left
// alone unless overwrite is set.
package pipeline
