package handlers

import (
	"context"
	"strings"

	"github.com/tailored-agentic-units/interpreter/session"
)

// Why explains the most recent decision.
type Why struct{}

func (*Why) Name() string { return "why" }

func (*Why) CanHandle(sc *session.Context) bool {
	raw := strings.ToLower(strings.TrimSpace(sc.RawInput))
	return raw == "why" || strings.HasPrefix(raw, "why ")
}

func (*Why) Handle(_ context.Context, sc *session.Context) Result {
	last := sc.LastDecision
	if last == nil {
		return Reply("There is no recent decision to explain.")
	}
	if len(last.Reason) == 0 {
		return Reply("I made that decision based on available information.")
	}
	return Reply(strings.Join(last.Reason, "\n"))
}
