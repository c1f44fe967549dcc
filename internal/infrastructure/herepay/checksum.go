// Package herepay implements the HerePay processor integration: request
// signing, the HTTP client, and sanitization of the hosted-payment
// redirect payload.
package herepay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Sign computes the HerePay checksum over a flat field map: any existing
// checksum key is dropped, the remaining keys are sorted ascending, and
// the *values* are joined with a single comma (no escaping) before
// HMAC-SHA256 with the private key. Lowercase hex out. An empty map
// signs the empty string, which is defined, not an error.
func Sign(fields map[string]string, privateKey string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == "checksum" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, fields[key])
	}

	mac := hmac.New(sha256.New, []byte(privateKey))
	mac.Write([]byte(strings.Join(values, ",")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the checksum over fields (minus checksum) and
// compares it against the claimed value in constant time.
func Verify(fields map[string]string, claimed, privateKey string) bool {
	computed := Sign(fields, privateKey)
	return hmac.Equal([]byte(computed), []byte(strings.ToLower(claimed)))
}

// Canonicalize flattens a loosely-typed field map to the string form the
// checksum is computed over. Numbers keep a stable decimal rendering (no
// scientific notation, no trailing-zero drift) and structured values
// become canonical JSON.
func Canonicalize(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[key] = canonicalValue(value)
	}
	return out
}

func canonicalValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		// Arrays and objects: canonical JSON (object keys sorted by the
		// encoder).
		raw, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Signer binds a private key for inbound event verification. It
// satisfies the processor gateway's EventVerifier port.
type Signer struct {
	privateKey string
}

func NewSigner(privateKey string) *Signer {
	return &Signer{privateKey: privateKey}
}

// Enabled reports whether a private key is configured.
func (s *Signer) Enabled() bool {
	return s.privateKey != ""
}

func (s *Signer) Sign(fields map[string]string) string {
	return Sign(fields, s.privateKey)
}

func (s *Signer) Verify(fields map[string]string, claimed string) bool {
	return Verify(fields, claimed, s.privateKey)
}
