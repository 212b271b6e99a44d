// internal/domain/session/token.go
package session

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
)

// Claims is the decoded token payload. It is read for display and role
// gating only; the signature is never checked here.
type Claims struct {
	Subject     api.ID           `json:"sub"`
	Role        string           `json:"role"`
	PhoneNumber string           `json:"phoneNumber"`
	Email       string           `json:"email"`
	IssuedAt    *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt   *jwt.NumericDate `json:"exp,omitempty"`
}

// Contact returns the phone number, or the email when there is none
func (c *Claims) Contact() string {
	if c.PhoneNumber != "" {
		return c.PhoneNumber
	}
	return c.Email
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

var alphabetFixer = strings.NewReplacer("+", "-", "/", "_")

// Decode reads the payload segment of a token. Padding is optional and the
// standard base64 alphabet is accepted alongside the URL-safe one. Malformed
// input returns nil.
func Decode(token string) *Claims {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil
	}

	payload, err := segmentParser.DecodeSegment(alphabetFixer.Replace(parts[1]))
	if err != nil {
		return nil
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	return &claims
}
