package display

import (
	"fmt"
)

// FormatBytes returns a binary-prefixed size with one decimal ("2.4 MiB").
// Values under 1 KiB are shown as whole bytes.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	units := []string{"KiB", "MiB", "GiB", "TiB"}
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}

// FormatKB renders a whole-kilobyte count the way the summary reports it.
func FormatKB(kb int64) string {
	return fmt.Sprintf("%d KB", kb)
}

// FormatKBWithSign prefixes with + or - for delta display (e.g. "- 120 KB").
func FormatKBWithSign(kb int64) string {
	sign := ""
	if kb > 0 {
		sign = "+ "
	} else if kb < 0 {
		sign = "- "
		kb = -kb
	}
	return sign + FormatKB(kb)
}

// FormatDimensions returns "WxH", or "unknown" when either side is unset.
func FormatDimensions(w, h int) string {
	if w <= 0 || h <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", w, h)
}
