// scrub.go implements sensitive data redaction for events. Scrubbing
// is opt-in; attach a Scrubber with WithScrubber and every event is
// scrubbed before it reaches the transport.

package gatey

import (
	"regexp"
	"strings"
)

// ScrubConfig controls scrubbing behavior.
type ScrubConfig struct {
	// ExtraPatterns contains additional regex patterns whose matches in
	// messages and descriptions are redacted.
	ExtraPatterns []string

	// ExtraSensitiveKeys contains additional tag key substrings whose
	// values are redacted.
	ExtraSensitiveKeys []string

	// MaxMessageSize is the maximum length for messages and exception
	// descriptions (default 4096).
	MaxMessageSize int

	// MaxTagValueSize is the maximum length per tag value (default 1024).
	MaxTagValueSize int
}

// DefaultScrubConfig returns production-safe defaults.
func DefaultScrubConfig() ScrubConfig {
	return ScrubConfig{
		MaxMessageSize:  4096,
		MaxTagValueSize: 1024,
	}
}

const redactedMarker = "[REDACTED]"

// Compiled patterns for message scrubbing (compiled once at package init)
var textScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)ghp_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'"",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // email
}

// Sensitive tag key substrings (case-insensitive match)
var sensitiveKeySubstrings = []string{
	"token",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
	"api_key",
	"apikey",
}

// Scrubber redacts sensitive data from events before delivery.
type Scrubber struct {
	cfg      ScrubConfig
	patterns []*regexp.Regexp
	keys     []string
}

// NewScrubber creates a scrubber. Invalid extra patterns are skipped.
func NewScrubber(cfg ScrubConfig) *Scrubber {
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}
	if cfg.MaxTagValueSize <= 0 {
		cfg.MaxTagValueSize = 1024
	}

	patterns := make([]*regexp.Regexp, 0, len(textScrubPatterns)+len(cfg.ExtraPatterns))
	patterns = append(patterns, textScrubPatterns...)
	for _, raw := range cfg.ExtraPatterns {
		if re, err := regexp.Compile(raw); err == nil {
			patterns = append(patterns, re)
		}
	}

	keys := make([]string, 0, len(sensitiveKeySubstrings)+len(cfg.ExtraSensitiveKeys))
	keys = append(keys, sensitiveKeySubstrings...)
	for _, k := range cfg.ExtraSensitiveKeys {
		keys = append(keys, strings.ToLower(k))
	}

	return &Scrubber{cfg: cfg, patterns: patterns, keys: keys}
}

// ScrubEvent returns a scrubbed copy of the event. The input is not
// modified.
func (s *Scrubber) ScrubEvent(event Event) Event {
	event.Message = s.scrubText(event.Message)
	event.Tags = s.scrubTags(event.Tags)

	if event.Exception != nil {
		exc := *event.Exception
		exc.Description = s.scrubText(exc.Description)
		event.Exception = &exc
	}
	return event
}

// scrubText redacts pattern matches and bounds the length.
func (s *Scrubber) scrubText(text string) string {
	if text == "" {
		return text
	}
	if len(text) > s.cfg.MaxMessageSize {
		text = truncateWithMarker(text, s.cfg.MaxMessageSize)
	}
	for _, pattern := range s.patterns {
		text = pattern.ReplaceAllString(text, redactedMarker)
	}
	return text
}

// scrubTags redacts sensitive keys and bounds value lengths.
func (s *Scrubber) scrubTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	result := make(map[string]string, len(tags))
	for key, value := range tags {
		if s.isSensitiveKey(key) {
			result[key] = redactedMarker
			continue
		}
		if len(value) > s.cfg.MaxTagValueSize {
			value = truncateWithMarker(value, s.cfg.MaxTagValueSize)
		}
		result[key] = s.scrubText(value)
	}
	return result
}

func (s *Scrubber) isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, substr := range s.keys {
		if strings.Contains(lower, substr) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and appends a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}
