package logger

import (
	"io"
	"regexp"
)

// Redactor scrubs provider credentials from log output. Agents inherit
// the full parent environment, so stage logs can echo argv or env text
// that carries keys.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor with the default credential patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// OpenAI / DeepSeek style keys
			regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),
			// Anthropic keys
			regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`),
			// Bearer tokens
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),
			// Gateway shared secrets in config echoes
			regexp.MustCompile(`secret["\s:=]+[^\s"]+`),
		},
	}
}

// Redact replaces credential matches in s.
func (r *Redactor) Redact(s string) string {
	result := s
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// Wrap returns a writer that redacts before delegating to w.
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{writer: w, redactor: r}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

func (w *redactingWriter) Write(p []byte) (int, error) {
	redacted := w.redactor.Redact(string(p))
	if _, err := w.writer.Write([]byte(redacted)); err != nil {
		return 0, err
	}
	// Report the original length; redaction may shrink the payload
	return len(p), nil
}
