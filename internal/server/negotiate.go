package server

import (
	"strconv"
	"strings"

	"github.com/backmassage/folio/internal/naming"
)

// negotiable reports whether p is a source image that may have a WebP
// sibling.
func negotiable(p string) bool {
	return naming.IsSource(p)
}

// webpSibling returns the converted counterpart of p when it exists.
func webpSibling(p string) (string, bool) {
	alt, ok := naming.OutputPath(p)
	if !ok || !isFile(alt) {
		return "", false
	}
	return alt, true
}

// acceptsWebP reports whether an Accept header lists image/webp with a
// non-zero quality. Wildcards are ignored: browsers that support WebP name
// it explicitly.
func acceptsWebP(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		fields := strings.Split(part, ";")
		if !strings.EqualFold(strings.TrimSpace(fields[0]), "image/webp") {
			continue
		}
		for _, param := range fields[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(k) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err == nil && q == 0 {
				return false
			}
		}
		return true
	}
	return false
}
