// Package naming maps source image paths to their WebP siblings and tracks
// which source claimed each output during a run.
package naming
