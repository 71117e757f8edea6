package auth

import "strings"

const bearerPrefix = "bearer "

// ExtractBearerToken returns the token part of an authorization header.
// The scheme is matched case-insensitively; the token is the remainder of
// the header after the first space and must not be empty or start with a
// line terminator.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}

	if !strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return "", ErrMalformedHeader
	}

	token := header[len(bearerPrefix):]
	if token == "" || startsWithLineTerminator(token) {
		return "", ErrMalformedHeader
	}

	return token, nil
}

func startsWithLineTerminator(s string) bool {
	for _, r := range s {
		switch r {
		case '\n', '\r', '\u2028', '\u2029':
			return true
		}
		return false
	}
	return false
}
