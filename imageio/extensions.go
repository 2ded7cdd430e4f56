// Package imageio classifies image files by extension and wraps encoded
// image bytes in lazily-decodable handles.
package imageio

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// knownImageExtensions lists the extensions the decoder understands, in the
// order they are reported in diagnostics.
var knownImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// skipExtensions lists companion-file extensions that are skipped without any
// warning. Checked before the known list, so an entry present in both is a
// silent skip.
var skipExtensions = []string{".json", ".txt", ".lst", ".db"}

// warningWriter receives unknown-extension diagnostics. Swap it out before
// any classification starts; it is not synchronized.
var warningWriter io.Writer = os.Stderr

// SetWarningWriter redirects data-quality warnings, e.g. to capture them in
// tests. Passing nil restores stderr.
func SetWarningWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	warningWriter = w
}

// SupportedExtensions returns the known extensions, comma-joined in
// declaration order.
func SupportedExtensions() string {
	return strings.Join(knownImageExtensions, ", ")
}

// IsDecodable reports whether path looks like an image the decoder can
// handle. Skip-list matches return false silently. Unknown extensions return
// false and emit a warning naming all supported extensions.
func IsDecodable(path string) bool {
	pathLow := strings.ToLower(path)

	for _, ext := range skipExtensions {
		if strings.HasSuffix(pathLow, ext) {
			return false
		}
	}
	for _, ext := range knownImageExtensions {
		if strings.HasSuffix(pathLow, ext) {
			return true
		}
	}
	fmt.Fprintf(warningWriter, "[Warning]: File %s has an extension that is not supported by the decoder. Supported extensions: %s.\n",
		path, SupportedExtensions())
	return false
}
