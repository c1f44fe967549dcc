package herepay

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// newRedirectPolicy builds the allow-list for the processor's initiate
// response. The payload is an HTML page whose script performs the hop to
// the hosted payment page, so script (src-based) and form/input must
// survive sanitization; everything else is restricted to inert layout
// and formatting tags. Inline event handlers are stripped.
func newRedirectPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowAttrs("type", "src", "charset", "async", "defer").OnElements("script")
	p.AllowAttrs("action", "method", "name", "id", "class", "target", "enctype").OnElements("form")
	p.AllowAttrs("type", "name", "value", "id", "class", "hidden", "readonly", "disabled").OnElements("input")
	p.AllowAttrs("type", "name", "value", "id", "class").OnElements("button")

	p.AllowAttrs("id", "class", "style").OnElements("div", "span", "p")
	p.AllowAttrs("href", "target", "id", "class").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "id", "class").OnElements("img")
	p.AllowAttrs("id", "class").OnElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "table", "tr", "td", "th",
	)
	p.AllowAttrs("name", "content", "http-equiv").OnElements("meta")
	p.AllowAttrs("type").OnElements("style")
	p.AllowElements("br", "hr", "strong", "em", "b", "i", "u")

	p.AllowStandardURLs()
	// Required for script and style elements to pass through at all.
	// The trust boundary here is the processor itself: this payload comes
	// from an authenticated TLS call to HerePay, not from user input.
	p.AllowUnsafe(true)

	return p
}

var noscriptPattern = regexp.MustCompile(`(?is)<noscript>(.*?)</noscript>`)

// SanitizeRedirectHTML applies the redirect allow-list to an initiate
// response body. The HTML tokenizer treats noscript content as raw text,
// which the policy would escape wholesale, so each no-JS fallback block
// is sanitized separately and re-wrapped.
func SanitizeRedirectHTML(body string) string {
	policy := newRedirectPolicy()

	var fallbacks []string
	interim := noscriptPattern.ReplaceAllStringFunc(body, func(block string) string {
		inner := noscriptPattern.FindStringSubmatch(block)[1]
		fallbacks = append(fallbacks, policy.Sanitize(inner))
		return noscriptMarker(len(fallbacks) - 1)
	})

	out := policy.Sanitize(interim)
	for i, fallback := range fallbacks {
		out = strings.Replace(out, noscriptMarker(i), "<noscript>"+fallback+"</noscript>", 1)
	}
	return out
}

func noscriptMarker(i int) string {
	return fmt.Sprintf("payrelay-noscript-%d", i)
}
