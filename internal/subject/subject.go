// Package subject compares subject names the way a person would: case,
// diacritics, dashes and repeated spaces do not matter.
package subject

import (
	"strings"
	"unicode"

	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips combining marks ("Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize folds a name for comparison.
func Normalize(name string) string {
	name = removeDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}

// Same reports whether a and b name the same person.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Contains reports whether query occurs in name after normalization. An
// empty query matches everything.
func Contains(name, query string) bool {
	return strings.Contains(Normalize(name), Normalize(query))
}

// Filter returns the faces whose name contains query.
func Filter(faces []enrollapi.Face, query string) []enrollapi.Face {
	if strings.TrimSpace(query) == "" {
		return faces
	}
	out := make([]enrollapi.Face, 0, len(faces))
	for _, f := range faces {
		if Contains(f.Name, query) {
			out = append(out, f)
		}
	}
	return out
}

// Lookalikes returns enrolled names equal to name after normalization but
// spelled differently, e.g. "Jiri" when enrolling "Jiří". The service keys
// subjects by exact name, so these would become separate identities.
func Lookalikes(faces []enrollapi.Face, name string) []string {
	var out []string
	name = strings.TrimSpace(name)
	for _, f := range faces {
		if f.Name != name && Same(f.Name, name) {
			out = append(out, f.Name)
		}
	}
	return out
}
