package auth

import "github.com/golang-jwt/jwt/v5"

// ExtractSubject returns the "sub" claim from a JWT access token without
// verifying its signature. The provider already verified the token when it
// issued it; this is purely local extraction of the user identifier for
// display or logging.
//
// Malformed input or a missing claim yields the empty string. ExtractSubject
// never fails.
func ExtractSubject(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}

	return sub
}
