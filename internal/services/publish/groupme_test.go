package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestPublisher(t *testing.T, handler http.Handler, opts ...GroupMeOption) *GroupMePublisher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []GroupMeOption{
		WithBaseURL(server.URL),
		WithRetryDelay(time.Millisecond),
		WithRateLimit(1000, 1000),
	}
	return NewGroupMePublisher(append(base, opts...)...)
}

func decodePost(t *testing.T, r *http.Request) botPost {
	t.Helper()

	var post botPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		t.Fatalf("decode bot post: %v", err)
	}
	return post
}

func TestPublishText(t *testing.T) {
	var posts []botPost
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bots/post" {
			t.Errorf("path = %q, want /bots/post", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		posts = append(posts, decodePost(t, r))
		w.WriteHeader(http.StatusAccepted)
	}))

	err := publisher.PublishText(context.Background(), "bot-123", "Week 3 is in the books 🏈")
	if err != nil {
		t.Fatalf("PublishText() error = %v", err)
	}

	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].BotID != "bot-123" {
		t.Errorf("bot_id = %q, want bot-123", posts[0].BotID)
	}
	if posts[0].Text != "Week 3 is in the books 🏈" {
		t.Errorf("text = %q", posts[0].Text)
	}
}

func TestPublishTextSplitsLongMessages(t *testing.T) {
	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf("line %02d %s", i, strings.Repeat("x", 92)))
	}
	text := strings.Join(lines, "\n")

	var posts []botPost
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts = append(posts, decodePost(t, r))
		w.WriteHeader(http.StatusAccepted)
	}))

	if err := publisher.PublishText(context.Background(), "bot-123", text); err != nil {
		t.Fatalf("PublishText() error = %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if !strings.HasPrefix(posts[0].Text, "(1/2) line 00") {
		t.Errorf("first part = %q, want (1/2) prefix", posts[0].Text[:30])
	}
	if !strings.HasPrefix(posts[1].Text, "(2/2) line 09") {
		t.Errorf("second part = %q, want (2/2) prefix and line 09", posts[1].Text[:30])
	}
	for i, post := range posts {
		if n := utf8.RuneCountInString(post.Text); n > maxMessageLength {
			t.Errorf("part %d is %d runes, over the GroupMe limit", i+1, n)
		}
	}
	if strings.Contains(posts[0].Text, "line 09") {
		t.Error("first part should end at line 08")
	}
	if !strings.Contains(posts[1].Text, "line 14") {
		t.Error("second part should carry the final line")
	}
}

func TestPublishTextRetries(t *testing.T) {
	calls := 0
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))

	if err := publisher.PublishText(context.Background(), "bot-123", "hello league"); err != nil {
		t.Fatalf("PublishText() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestPublishTextGivesUpAfterRetries(t *testing.T) {
	calls := 0
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}), WithMaxRetries(2))

	err := publisher.PublishText(context.Background(), "bot-123", "hello league")
	if err == nil {
		t.Fatal("PublishText() expected error")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want attempt count", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestPublishTextValidation(t *testing.T) {
	calls := 0
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusAccepted)
	}))

	if err := publisher.PublishText(context.Background(), "", "hello"); err == nil {
		t.Error("expected error for empty bot id")
	}
	if err := publisher.PublishText(context.Background(), "bot-123", "   "); err == nil {
		t.Error("expected error for empty text")
	}
	if calls != 0 {
		t.Errorf("got %d calls, want 0", calls)
	}
}

func TestHealthCheck(t *testing.T) {
	publisher := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if err := publisher.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	publisher := NewGroupMePublisher(
		WithBaseURL(server.URL),
		WithRateLimit(1000, 1000),
	)
	if err := publisher.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() expected error for closed server")
	}
}

func TestSplitMessageShortText(t *testing.T) {
	parts := splitMessage("short recap")
	if len(parts) != 1 || parts[0] != "short recap" {
		t.Errorf("splitMessage() = %v, want single untouched part", parts)
	}
}

func TestSplitMessageSingleGiantLine(t *testing.T) {
	line := strings.Repeat("x", 1200)
	parts := splitMessage(line)
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	if parts[0] != line {
		t.Error("an unbreakable line should come back whole")
	}
}

func TestTruncateRunes(t *testing.T) {
	s := strings.Repeat("🏆", 1002)
	got := truncateRunes(s, maxMessageLength)
	if n := utf8.RuneCountInString(got); n != maxMessageLength {
		t.Errorf("got %d runes, want %d", n, maxMessageLength)
	}
	if truncateRunes("short", maxMessageLength) != "short" {
		t.Error("short strings should pass through")
	}
}
