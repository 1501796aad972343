// Package redact scrubs secrets from tool output before it reaches the
// JSON-RPC peer, and classifies sensitive files and oversized files
// that should be indexed as opaque: registered, but their contents
// never parsed or redacted. Ported
// directly from the Rust original's security_config.rs: the same
// regex/replacement pairs, applied in the same order, and the same
// is_sensitive_file/should_skip_file gates.
package redact

import (
	"regexp"
	"strings"
)

// DefaultMaxFileSize is the should-skip-file gate, 10MB, matching
// SecurityConfig::default.max_file_size in the original.
const DefaultMaxFileSize = 10 * 1024 * 1024

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules is applied in order, each replacing every match in turn; a
// secret whose redacted form could itself match an earlier rule would
// only ever be re-redacted to the same placeholder, so this function is
// idempotent: redaction is a fixpoint.
var rules = []rule{
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*['"]?([a-zA-Z0-9_-]{20,})['"]?`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`(?i)(secret[_-]?key|secretkey)\s*[:=]\s*['"]?([a-zA-Z0-9_-]{20,})['"]?`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`(?i)(access[_-]?token|accesstoken)\s*[:=]\s*['"]?([a-zA-Z0-9_-]{20,})['"]?`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`(?i)(auth[_-]?token|authtoken)\s*[:=]\s*['"]?([a-zA-Z0-9_-]{20,})['"]?`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "[AWS_KEY_REDACTED]"},
	{regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*['"]?([a-zA-Z0-9/+=]{40})['"]?`), "AWS_SECRET_ACCESS_KEY=[REDACTED]"},
	{regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`), "[GITHUB_TOKEN_REDACTED]"},
	{regexp.MustCompile(`gho_[a-zA-Z0-9]{36}`), "[GITHUB_OAUTH_REDACTED]"},
	{regexp.MustCompile(`ghu_[a-zA-Z0-9]{36}`), "[GITHUB_USER_TOKEN_REDACTED]"},
	{regexp.MustCompile(`ghs_[a-zA-Z0-9]{36}`), "[GITHUB_SERVER_TOKEN_REDACTED]"},
	{regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{22,}`), "[GITHUB_PAT_REDACTED]"},
	{regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----[\s\S]*?-----END (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), "[PRIVATE_KEY_REDACTED]"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?([^'"\s]{8,})['"]?`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_=-]+\.[a-zA-Z0-9_=-]+\.?[a-zA-Z0-9_=-]*`), "Bearer [JWT_REDACTED]"},
	{regexp.MustCompile(`(?i)(mongodb|postgres|mysql|redis)://[^@]+@`), "${1}://[CREDENTIALS_REDACTED]@"},
	{regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`), "[SLACK_TOKEN_REDACTED]"},
	{regexp.MustCompile(`sk_live_[a-zA-Z0-9]{24,}`), "[STRIPE_KEY_REDACTED]"},
	{regexp.MustCompile(`rk_live_[a-zA-Z0-9]{24,}`), "[STRIPE_RESTRICTED_KEY_REDACTED]"},
	{regexp.MustCompile(`SG\.[a-zA-Z0-9_-]{22}\.[a-zA-Z0-9_-]{43}`), "[SENDGRID_KEY_REDACTED]"},
	{regexp.MustCompile(`SK[a-f0-9]{32}`), "[TWILIO_KEY_REDACTED]"},
	{regexp.MustCompile(`(?i)(secret|token|key|credential|auth).*['"]([a-f0-9]{32,64})['"]`), "${1}=[REDACTED]"},
}

// Secrets scans input for every pattern in rules and replaces matches
// with their redaction marker, applied in the fixed order above.
func Secrets(input string) string {
	out := input
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}
	return out
}

var sensitivePatterns = []string{
	".env", ".pem", ".key", ".p12", ".pfx",
	"credentials", "secrets", ".htpasswd",
	"id_rsa", "id_dsa", "id_ecdsa", "id_ed25519",
	".npmrc", ".pypirc", ".netrc",
	"aws_access", "gcloud", "keystore",
}

// IsSensitiveFile reports whether path looks like it holds credentials,
// ported from is_sensitive_file. Files that match are still registered
// during indexing (registered but opaque) but their
// content is never parsed, chunked, or handed to the redactor.
func IsSensitiveFile(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range sensitivePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ShouldSkipFile reports whether size exceeds maxFileSize and the file
// should be registered but never read, ported from should_skip_file.
func ShouldSkipFile(size, maxFileSize int64) bool {
	return size > maxFileSize
}
