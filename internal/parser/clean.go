package parser

import "strings"

var wikitextReplacer = strings.NewReplacer("&nbsp;", " ")

// CleanWikitext normalizes raw markup before parsing. Non-breaking space
// entities become plain spaces so they do not split text runs into entity
// references.
func CleanWikitext(s string) string {
	return wikitextReplacer.Replace(s)
}
