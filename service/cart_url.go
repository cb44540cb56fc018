package service

import "regexp"

var cartParamPattern = regexp.MustCompile(`cart=([^&]+)`)

// ExtractCartID returns the value of the first cart= parameter in rawURL,
// up to the next '&' or the end of the string.
func ExtractCartID(rawURL string) (string, bool) {
	m := cartParamPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
