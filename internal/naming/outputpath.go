package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// WebPExt is the extension written next to every converted source.
const WebPExt = ".webp"

// sourceExtensions are the raster formats the optimizer converts
// (lowercase, with leading dot).
var sourceExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var reSourceExt = regexp.MustCompile(`(?i)\.(png|jpg|jpeg)$`)

// IsSource reports whether path has a convertible extension, compared
// case-insensitively.
func IsSource(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// OutputPath returns the sibling WebP path for src by replacing a trailing
// .png/.jpg/.jpeg (any case) with .webp:
//
//	public/img/Hero.PNG -> public/img/Hero.webp
//
// ok is false when src has no convertible extension, so a caller can never
// end up writing over its own input.
func OutputPath(src string) (out string, ok bool) {
	if !reSourceExt.MatchString(src) {
		return "", false
	}
	return reSourceExt.ReplaceAllString(src, WebPExt), true
}
