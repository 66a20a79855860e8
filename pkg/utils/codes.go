package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
	nonCodeChars = regexp.MustCompile("[^A-Z0-9-]")
)

// Slugify converts a name to a lowercase, hyphenated slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeCode uppercases a user supplied code such as a rack code and
// strips anything that is not a letter, digit or hyphen.
func NormalizeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonCodeChars.ReplaceAllString(s, "")
	return strings.Trim(dashRuns.ReplaceAllString(s, "-"), "-")
}

// GenerateDocumentNo returns PREFIX-YYYYMMDD-XXXXXXXX for invoices and
// purchase orders.
func GenerateDocumentNo(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102") + "-" + shortID()
}

// GenerateMedicineCode returns a short stock code for medicines created
// without one.
func GenerateMedicineCode() string {
	return "MED-" + shortID()
}

func shortID() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
