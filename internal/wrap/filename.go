package wrap

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ironsheep/tumbler-wrap/internal/imaging"
)

// Filename builds the download name of a generated wrap:
// <product>-<style>-wrap-<unix milliseconds><ext>. Product and style are lower-cased and
// reduced to letters, digits and single hyphens.
func Filename(product, style string, t time.Time, f imaging.Format) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{product, style} {
		if s = slug(s); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, "wrap")
	return fmt.Sprintf("%s-%d%s", strings.Join(parts, "-"), t.UnixMilli(), f.Ext())
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
