// Package linkify converts bare URLs and email addresses in generated text
// into HTML anchors with canonical targets.
package linkify

import (
	"fmt"
	"regexp"
	"strings"
)

const anchorStyle = "color: #0066cc; text-decoration: underline; font-weight: 500;"

var (
	// Existing anchors are skipped wholesale so Normalize never double-wraps.
	anchorRe = regexp.MustCompile(`(?is)<a\b[^>]*>.*?</a>`)

	urlRe   = regexp.MustCompile(`(?:https?://)?(?:www\.)?[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/[^\s<]*)?`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// Normalize wraps URL and email tokens in anchor elements. It is total and
// idempotent: spans already inside an anchor are left untouched.
func Normalize(text string) string {
	var b strings.Builder

	last := 0
	for _, loc := range anchorRe.FindAllStringIndex(text, -1) {
		b.WriteString(normalizeSegment(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(normalizeSegment(text[last:]))

	return b.String()
}

func normalizeSegment(segment string) string {
	return linkEmails(linkURLs(segment))
}

func linkURLs(s string) string {
	var b strings.Builder

	last := 0
	for _, loc := range urlRe.FindAllStringIndex(s, -1) {
		start := loc[0]

		// Sentence punctuation after a domain or path is not part of the link.
		token := strings.TrimRight(s[start:loc[1]], ".,;:!?")
		end := start + len(token)

		if token == "" || partOfEmail(s, start, end) {
			b.WriteString(s[last:loc[1]])
			last = loc[1]
			continue
		}

		b.WriteString(s[last:start])
		b.WriteString(fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" style="%s">%s</a>`,
			canonicalTarget(token), anchorStyle, token))
		last = end
	}
	b.WriteString(s[last:])

	return b.String()
}

// partOfEmail reports whether the URL-shaped token at [start,end) belongs to
// an email address. Any token containing '@' (local parts, or paths with an
// embedded address) is left to the email pass, as is a token whose match
// boundary sits right next to one.
func partOfEmail(s string, start, end int) bool {
	if strings.Contains(s[start:end], "@") {
		return true
	}
	if start > 0 && s[start-1] == '@' {
		return true
	}
	if end < len(s) && s[end] == '@' {
		return true
	}

	return false
}

func canonicalTarget(token string) string {
	switch {
	case strings.HasPrefix(token, "http://"), strings.HasPrefix(token, "https://"):
		return token
	case strings.Contains(token, "www.vreg.gov.ng"):
		return strings.Replace(token, "www.vreg.gov.ng", "https://vreg.gov.ng", 1)
	case strings.Contains(token, "www.trade.gov.ng"):
		return strings.Replace(token, "www.trade.gov.ng", "https://trade.gov.ng", 1)
	case strings.HasPrefix(token, "www."):
		return "https://" + strings.TrimPrefix(token, "www.")
	default:
		return "https://" + token
	}
}

func linkEmails(s string) string {
	return emailRe.ReplaceAllStringFunc(s, func(email string) string {
		return fmt.Sprintf(`<a href="mailto:%s" style="%s">%s</a>`, email, anchorStyle, email)
	})
}
