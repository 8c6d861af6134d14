package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// Token scopes keep a file URL from being replayed against the bundle route
// and vice versa.
const (
	scopeFile   = "file"
	scopeBundle = "bundle"
)

// URLSigner mints and verifies the ephemeral signatures carried by download
// and bundle URLs. It plays the role a presigned S3 URL plays for bucket
// storage, for blob stores that cannot presign.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{secret: []byte(secret), ttl: ttl}
}

// TTL returns how long minted signatures stay valid.
func (s *URLSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns the expiry (unix seconds) and signature for a scope/id pair.
func (s *URLSigner) Sign(scope, id string, now time.Time) (int64, string) {
	exp := now.Add(s.ttl).Unix()
	return exp, s.compute(scope, id, exp)
}

// Verify checks a signature and that it has not expired.
func (s *URLSigner) Verify(scope, id string, exp int64, sig string, now time.Time) bool {
	if now.Unix() >= exp {
		return false
	}
	want := s.compute(scope, id, exp)
	return hmac.Equal([]byte(want), []byte(sig))
}

func (s *URLSigner) compute(scope, id string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d", scope, id, exp)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
