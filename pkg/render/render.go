// Package render converts raw agent output into the uniform response the
// CLI and gateway surface to callers, regardless of whether the agent
// emitted a structured document or plain text.
package render

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hxcode/nativeos/pkg/invoke"
)

// titleTemplate embeds the upper-cased agent identifier. The title is
// identical on success and failure so callers can always locate a
// response by agent.
const titleTemplate = "[%s] Agent Response"

// Response is the externally visible result of one dispatch. This shape
// is the contract the CLI and GUI depend on.
type Response struct {
	// AgentID is the agent that produced the output
	AgentID string `json:"agent_id"`

	// Title is derived deterministically from AgentID
	Title string `json:"title"`

	// Body is the rendered content: a structured document's content or
	// message field, the whole document, stderr on failure, or plain text
	Body string `json:"body"`

	// Structured reports whether stdout parsed as a structured document
	Structured bool `json:"structured"`

	// Succeeded is false for any non-zero exit
	Succeeded bool `json:"succeeded"`
}

// Render interprets an invocation result. It is a pure function: the same
// result always yields the same response.
//
// Failure (non-zero exit) renders stderr as the body; stdout is ignored.
// Otherwise stdout is probed as JSON for a "content" field, then a
// "message" field; a structured document with neither is rendered whole.
// Unparseable stdout degrades silently to a plain text body.
func Render(result invoke.Result, agentID string) Response {
	resp := Response{
		AgentID: agentID,
		Title:   Title(agentID),
	}

	if result.Failed() {
		resp.Body = strings.TrimSpace(string(result.Stderr))
		return resp
	}

	resp.Succeeded = true

	stdout := strings.TrimSpace(string(result.Stdout))
	if !gjson.Valid(stdout) || !isDocument(stdout) {
		resp.Body = stdout
		return resp
	}

	resp.Structured = true

	if content := gjson.Get(stdout, "content"); content.Exists() {
		resp.Body = content.String()
		return resp
	}
	if message := gjson.Get(stdout, "message"); message.Exists() {
		resp.Body = message.String()
		return resp
	}

	resp.Body = stdout
	return resp
}

// Title returns the display title for an agent identifier.
func Title(agentID string) string {
	return fmt.Sprintf(titleTemplate, strings.ToUpper(agentID))
}

// isDocument restricts structured rendering to key/value documents.
// Bare JSON scalars ("42", `"hi"`) read better as plain text.
func isDocument(s string) bool {
	return strings.HasPrefix(s, "{")
}
