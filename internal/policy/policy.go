// Package policy holds the pure gating logic applied before any file access
// is granted. It never touches storage; callers feed it a loaded transfer and
// act on the decision.
package policy

import (
	"time"

	"github.com/sendry-io/sendry-server/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type Decision int

const (
	Allow Decision = iota
	DenyExpired
	DenyLimitReached
	DenyBadPassword
	DenyPasswordRequired
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyExpired:
		return "expired"
	case DenyLimitReached:
		return "limit_reached"
	case DenyBadPassword:
		return "bad_password"
	case DenyPasswordRequired:
		return "password_required"
	default:
		return "unknown"
	}
}

// Evaluate decides whether access to a transfer may be granted. Expiry and
// download-limit checks run before any password check, so an expired or
// exhausted link never reveals whether the supplied password was right.
//
// An Allow result is only a precondition: the caller must still win the
// atomic download-count increment before handing out file URLs.
func Evaluate(t *models.Transfer, suppliedPassword string, now time.Time) Decision {
	if t.ExpiredAt(now) {
		return DenyExpired
	}
	if t.MaxDownloads != nil && t.DownloadCount >= *t.MaxDownloads {
		return DenyLimitReached
	}
	if t.HasPassword() {
		if suppliedPassword == "" {
			return DenyPasswordRequired
		}
		// bcrypt comparison is constant-time against the hash
		if bcrypt.CompareHashAndPassword([]byte(*t.PasswordHash), []byte(suppliedPassword)) != nil {
			return DenyBadPassword
		}
	}
	return Allow
}

// HashPassword produces the salted slow hash stored on password-gated
// transfers. The plaintext is never persisted anywhere.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
