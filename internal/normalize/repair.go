package normalize

import "regexp"

// Textual repair for quasi-JSON the upstream automation emits: stray
// control characters, trailing commas, bare identifier keys, and
// single-quoted string values. Applied once, between the strict parse and
// the recovery tiers.
var (
	reControlChars  = regexp.MustCompile(`[\x00-\x19]+`)
	reTrailingComma = regexp.MustCompile(`,\s*}`)
	reTrailingArr   = regexp.MustCompile(`,\s*]`)
	reBareKey       = regexp.MustCompile(`([{,])\s*([a-zA-Z0-9_]+)\s*:`)
	reSingleQuoted  = regexp.MustCompile(`:\s*'([^']*?)'\s*(,|})`)
)

func repairText(s string) string {
	s = reControlChars.ReplaceAllString(s, "")
	s = reTrailingComma.ReplaceAllString(s, "}")
	s = reTrailingArr.ReplaceAllString(s, "]")
	s = reBareKey.ReplaceAllString(s, `$1"$2":`)
	s = reSingleQuoted.ReplaceAllString(s, `:"$1"$2`)
	return s
}
