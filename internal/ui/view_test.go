package ui

import (
	"strings"
	"testing"

	"partyline/internal/chat"
)

func TestRenderMessage_RoomTagOnlyWhenElsewhere(t *testing.T) {
	msg := chat.Message{Sender: "bob", Color: "ff0000", Room: "ops", Text: "deploy done"}
	out := renderMessage(msg, "general")
	if !strings.Contains(out, "[ops]") {
		t.Fatalf("expected room tag in %q", out)
	}
	out = renderMessage(msg, "ops")
	if strings.Contains(out, "[ops]") {
		t.Fatalf("unexpected room tag in %q", out)
	}
}

func TestRenderMessage_PresenceNoticeHasNoSenderPrefix(t *testing.T) {
	msg := chat.Message{Color: "ff0000", Room: "general", Text: "* bob joined general"}
	out := renderMessage(msg, "general")
	if strings.Contains(out, ": ") {
		t.Fatalf("unexpected sender prefix in %q", out)
	}
}

func TestView_SmokeTest(t *testing.T) {
	m, d := connectedModel(t)
	deliver(t, m, d, chatFrame("bob", "hi there"))
	m = run(t, m, tickCmd())
	out := m.View()
	if !strings.Contains(out, "Room: general") {
		t.Fatalf("missing title in view:\n%s", out)
	}
	if !strings.Contains(out, "hi there") {
		t.Fatalf("missing message in view:\n%s", out)
	}
}
