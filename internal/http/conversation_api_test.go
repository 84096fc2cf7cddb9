package handlers_test

import (
	"net/http"
	"testing"
)

func TestConversationFirstContactAndReuse(t *testing.T) {
	app, db := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")
	sari := login(t, app, "sari@givetzy.test", "Passw0rd!")

	resp, body := doJSON(t, app, "POST", "/api/conversations/new", budi, map[string]any{
		"recipient_id": "u-sari",
		"product_id":   "brg-guitar",
		"content":      "Is the guitar still available?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first contact: status %d (%v)", resp.StatusCode, body)
	}
	data, _ := body["data"].(map[string]any)
	convID, _ := data["conversation_id"].(string)
	if convID == "" {
		t.Fatalf("no conversation id in %v", body)
	}

	// Same pair and product, second message lands in the same thread.
	resp, body = doJSON(t, app, "POST", "/api/conversations/new", budi, map[string]any{
		"recipient_id": "u-sari",
		"product_id":   "brg-guitar",
		"content":      "I can pick it up tomorrow.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reuse: status %d (%v)", resp.StatusCode, body)
	}
	data, _ = body["data"].(map[string]any)
	if data["conversation_id"] != convID {
		t.Fatalf("second message opened a new conversation: %v vs %v", data["conversation_id"], convID)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM conversations`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("%d conversations, want 1", n)
	}

	// The other side replies inside the thread.
	resp, _ = doJSON(t, app, "POST", "/api/conversations/"+convID+"/messages", sari, map[string]any{
		"content": "Yes, it is.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reply: status %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, "GET", "/api/conversations/"+convID+"/messages", budi, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("messages: status %d", resp.StatusCode)
	}
	msgs, _ := body["data"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("%d messages, want 3", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["content"] != "Is the guitar still available?" {
		t.Fatalf("messages not oldest-first: %v", first["content"])
	}
}

func TestConversationSelfChatRejected(t *testing.T) {
	app, _ := newTestApp(t)
	sari := login(t, app, "sari@givetzy.test", "Passw0rd!")

	resp, body := doJSON(t, app, "POST", "/api/conversations/new", sari, map[string]any{
		"recipient_id": "u-sari",
		"content":      "talking to myself",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self chat: status %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "SELF_CONVERSATION_NOT_ALLOWED" {
		t.Fatalf("self chat code = %v", body["code"])
	}
}

func TestConversationAccessIsParticipantOnly(t *testing.T) {
	app, _ := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")

	_, body := doJSON(t, app, "POST", "/api/conversations/new", budi, map[string]any{
		"recipient_id": "u-sari",
		"content":      "hello",
	})
	data, _ := body["data"].(map[string]any)
	convID, _ := data["conversation_id"].(string)

	doJSON(t, app, "POST", "/auth/register", "", map[string]any{
		"email": "candra@givetzy.test", "password": "Passw0rd!", "name": "Candra",
	})
	candra := login(t, app, "candra@givetzy.test", "Passw0rd!")

	resp, _ := doJSON(t, app, "GET", "/api/conversations/"+convID+"/messages", candra, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider read: status %d, want 403", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "POST", "/api/conversations/"+convID+"/messages", candra, map[string]any{
		"content": "let me in",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider post: status %d, want 403", resp.StatusCode)
	}
}

func TestConversationInbox(t *testing.T) {
	app, _ := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")
	sari := login(t, app, "sari@givetzy.test", "Passw0rd!")

	doJSON(t, app, "POST", "/api/conversations/new", budi, map[string]any{
		"recipient_id": "u-sari",
		"product_id":   "brg-novel",
		"content":      "Still have the novel?",
	})

	resp, body := doJSON(t, app, "GET", "/api/conversations", sari, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inbox: status %d (%v)", resp.StatusCode, body)
	}
	convs, _ := body["data"].([]any)
	if len(convs) != 1 {
		t.Fatalf("inbox has %d conversations, want 1", len(convs))
	}
	conv, _ := convs[0].(map[string]any)
	other, _ := conv["other"].(map[string]any)
	if other["id"] != "u-budi" {
		t.Fatalf("inbox other = %v, want u-budi", other["id"])
	}
	last, _ := conv["last_message"].(map[string]any)
	if last["content"] != "Still have the novel?" {
		t.Fatalf("last message = %v", last["content"])
	}
}
