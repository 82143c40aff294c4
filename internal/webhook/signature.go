package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// SignatureStatus is the outcome of verifying an inbound webhook signature.
type SignatureStatus int

const (
	// SignatureValid means the signature matched the body digest.
	SignatureValid SignatureStatus = iota
	// SignatureInvalid means a signature was presented but did not match.
	SignatureInvalid
	// SignatureUnverifiable means no signature was presented or no secret is
	// configured; whether to accept is a policy decision made by the handler.
	SignatureUnverifiable
)

func (s SignatureStatus) String() string {
	switch s {
	case SignatureValid:
		return "valid"
	case SignatureInvalid:
		return "invalid"
	default:
		return "unverifiable"
	}
}

// signatureHeaders lists the header names the voice platform has used across
// versions, in lookup order.
var signatureHeaders = []string{
	"Elevenlabs-Signature",
	"X-Elevenlabs-Signature",
	"X-Webhook-Signature",
	"X-Signature",
}

// SignatureHeaders returns the candidate signature header names, for CORS
// allow-lists.
func SignatureHeaders() []string {
	out := make([]string, len(signatureHeaders))
	copy(out, signatureHeaders)
	return out
}

// SignatureFromHeader returns the first non-empty candidate signature header.
func SignatureFromHeader(h http.Header) string {
	for _, name := range signatureHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// Verifier authenticates webhook bodies against a shared secret.
type Verifier struct {
	secret string
}

// NewVerifier returns a Verifier for the given shared secret. An empty secret
// yields a verifier that reports every request as unverifiable.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: strings.TrimSpace(secret)}
}

// Verify computes an HMAC-SHA256 digest of the exact received body bytes and
// compares it against the presented signature in constant time. The signature
// may carry an optional "sha256=" scheme prefix.
func (v *Verifier) Verify(body []byte, signature string) SignatureStatus {
	signature = strings.TrimSpace(signature)
	if v.secret == "" || signature == "" {
		return SignatureUnverifiable
	}

	signature = strings.TrimPrefix(signature, "sha256=")
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return SignatureInvalid
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	_, _ = mac.Write(body)
	expected := mac.Sum(nil)

	if hmac.Equal(expected, provided) {
		return SignatureValid
	}
	return SignatureInvalid
}
