// Package probe inspects image files without fully decoding them. It reads
// only the header (image.DecodeConfig) to report format and dimensions for
// sources, and verifies that written WebP outputs are decodable.
package probe
