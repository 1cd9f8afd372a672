// Package textutil holds the stateless text helpers shared by the search,
// article and summarizer stages.
package textutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Single pass so that "&amp;lt;" decodes to "&lt;" and not "<".
	entityReplacer = strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
	)
)

// CleanText strips HTML tags, decodes a fixed set of entities, collapses
// whitespace and trims. Tags are removed before entities are decoded.
func CleanText(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// StripTags removes HTML tags and collapses whitespace without decoding
// entities. Use it on text a parser has already decoded.
func StripTags(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TruncateText cuts text to at most maxLength characters.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength])
}

// Length returns the number of characters in text.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// IsValidURL reports whether raw is an absolute http or https URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// corporateSuffixes is ordered longest first so that "한국투자증권" strips to
// "한국" via "투자증권" rather than leaving "한국투자".
var corporateSuffixes = []string{
	"투자증권",
	"금융투자",
	"자산운용",
	"증권",
	"Securities",
	"Investment",
}

// ShortName returns name without its corporate suffix, or name itself when
// no known suffix applies.
func ShortName(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range corporateSuffixes {
		if short, ok := strings.CutSuffix(name, suffix); ok {
			short = strings.TrimSpace(short)
			if short != "" {
				return short
			}
		}
	}
	return name
}

// TitleMentionsCompany reports whether title contains the company name,
// either in full or with its corporate suffix stripped. Headlines often drop
// the legal suffix.
func TitleMentionsCompany(title, companyName string) bool {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return false
	}
	if strings.Contains(title, companyName) {
		return true
	}
	short := ShortName(companyName)
	return short != companyName && strings.Contains(title, short)
}
