package material

import "regexp"

// KeywordRule maps any text matching Pattern to Label.
type KeywordRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// keywordRules run in order against the raw text; the first hit wins.
var keywordRules = []KeywordRule{
	{regexp.MustCompile(`(?i)\bshred( steel)?\b`), "Shred"},
	{regexp.MustCompile(`(?i)\bhms\b|\bheavy\s*melt\b`), "HMS"},
	{regexp.MustCompile(`(?i)\bp\s*&\s*s\b|\bp[/&]s\b`), "P&S"},
	{regexp.MustCompile(`(?i)\bclips?\b`), "Clips"},
	{regexp.MustCompile(`(?i)\balum(inum)?\s+car\s+wheels?\b`), "Al Car Wheels"},
	{regexp.MustCompile(`(?i)\bextrusion\b.*\bbare\b`), "Al Extrusion (Bare)"},
	{regexp.MustCompile(`(?i)\bins(ulated)?\s+al(uminum)?\s+wire\b|\bacsr\b`), "Insulated Al Wire"},
	{regexp.MustCompile(`(?i)\bbreakage\b`), "Al Breakage"},
	{regexp.MustCompile(`(?i)\bold\s*sheet\b`), "Old Sheet"},
	{regexp.MustCompile(`(?i)\bubc|alum\s*cans?\b`), "Alum Cans"},
}
