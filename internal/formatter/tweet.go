package formatter

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const (
	// MaxTweetLength is the platform's hard per-post character budget.
	MaxTweetLength = 280

	separator = "\n\n"
	ellipsis  = "..."
)

// ErrLinkTooLong means the link alone leaves no room for a truncated title.
var ErrLinkTooLong = errors.New("link too long for a single post")

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags removes <...> markup.
func StripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// Length counts characters the way the platform budget does (code points).
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Tweet renders "<title>\n\n<link>" within MaxTweetLength, truncating the title with "..." if needed.
func Tweet(title, link string) (string, error) {
	title = StripTags(title)

	budget := MaxTweetLength - Length(link) - Length(separator)
	if Length(title) > budget {
		if budget < Length(ellipsis) {
			return "", ErrLinkTooLong
		}
		title = truncate(title, budget-Length(ellipsis)) + ellipsis
	}

	return title + separator + link, nil
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
