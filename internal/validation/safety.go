package validation

import (
	"context"
	"regexp"
)

// pattern pairs a compiled expression with the message reported on match
type pattern struct {
	re      *regexp.Regexp
	message string
}

func compile(expr, message string) pattern {
	return pattern{re: regexp.MustCompile(expr), message: message}
}

// Blocking patterns make a file invalid
var blockingPatterns = []pattern{
	compile(`rm\s+-rf`, `Destructive command "rm -rf" detected`),
	compile(`mkfs`, `Destructive command "mkfs" detected`),
	compile(`:\(\)\{\s*:\|:\s*&\s*\}\s*;?\s*:`, "Fork bomb pattern detected"),
	compile(`(?:wget|curl)\s+.*\|\s*(?:ba|z)?sh\b`, "Pipe to shell detected"),
	compile(`(?i)<script[\s>]`, "<script> tag detected"),
	compile(`(?i)<iframe[\s>]`, "<iframe> tag detected"),
	compile(`(?i)<object[\s>]`, "<object> tag detected"),
	compile(`(?i)javascript:`, `"javascript:" URI detected`),
	compile("(?i)<[a-z][^>]*[\\s/\"'`]on[a-z]+\\s*=", "HTML event handler (e.g., onclick) detected"),
	compile(`(?i)Ignore all previous instructions`, `Possible Prompt Injection: "Ignore all previous instructions"`),
	compile(`(?i)System override`, `Possible Prompt Injection: "System override"`),
	compile(`(?i)You are now \[.*\]`, "Possible Prompt Injection: Role hijacking"),
}

// Advisory patterns only produce warnings
var warningPatterns = []pattern{
	compile(`eval\(`, `Suspicious code pattern "eval(" detected`),
	compile(`exec\(`, `Suspicious code pattern "exec(" detected`),
	compile(`child_process`, `Suspicious usage of "child_process" detected`),
	compile(`subprocess\.(?:run|call|Popen|check_output)\(`, `Suspicious usage of "subprocess" detected`),
	compile(`/etc/passwd`, `Reference to sensitive file "/etc/passwd" detected`),
	compile(`/etc/shadow`, `Reference to sensitive file "/etc/shadow" detected`),
	compile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY-----`, "Potential Private Key detected"),
	compile(`AKIA[0-9A-Z]{16}`, "Potential AWS Access Key detected"),
}

// ContentSafetyValidator scans raw content for dangerous commands, active
// markup, prompt injection phrasing and leaked secrets
type ContentSafetyValidator struct {
	blocking []pattern
	warning  []pattern
}

// NewContentSafetyValidator creates a validator with the built-in patterns
func NewContentSafetyValidator() *ContentSafetyValidator {
	return &ContentSafetyValidator{
		blocking: blockingPatterns,
		warning:  warningPatterns,
	}
}

func (v *ContentSafetyValidator) Name() string {
	return "ContentSafetyValidator"
}

func (v *ContentSafetyValidator) Validate(_ context.Context, fc FileContext) Result {
	result := NewResult()

	for _, p := range v.blocking {
		if p.re.MatchString(fc.Content) {
			result.AddError("Potentially malicious pattern detected: " + p.message)
		}
	}

	for _, p := range v.warning {
		if p.re.MatchString(fc.Content) {
			result.AddWarning("Suspicious code pattern: " + p.message)
		}
	}

	return result
}
