// Package encoder turns a planned source image into a WebP file.
//
// Three backends share one interface:
//   - native: decodes PNG/JPEG in-process, optionally downscales with
//     golang.org/x/image/draw, and encodes with libwebp compiled to
//     WebAssembly (github.com/gen2brain/webp). Output is deterministic.
//   - cwebp and ffmpeg: build an argument list (builder.go), run the tool
//     with stderr captured (executor.go), and classify failures from
//     stderr (errors.go).
//
// There are no retries: a failed encode is reported once and the caller
// moves on to the next file.
package encoder
