package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/data/store"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
)

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	_, internalStore := newTestStore(t)
	sessionStore := store.TestSessionStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	session := sessionModel.Session{
		Id:           "session-42",
		Username:     "analyst",
		ArtifactName: "q3-report.pdf",
		DataContext:  "Document: q3-report.pdf (12 pages, 40000 characters)",
		ChunkCount:   37,
		IndexedAt:    time.Now().UTC(),
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := sessionStore.SaveSession(ctx, session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		got, found := sessionStore.GetSession(ctx, "session-42")
		if !found {
			t.Fatal("Session was saved but not found")
		}
		if got.ChunkCount != 37 || got.ArtifactName != "q3-report.pdf" {
			t.Errorf("Data mismatch: %+v", got)
		}
	})

	t.Run("Replacing the artifact overwrites the record", func(t *testing.T) {
		session.ArtifactName = "q4-report.pdf"
		session.ChunkCount = 12
		if err := sessionStore.SaveSession(ctx, session); err != nil {
			t.Fatal(err)
		}

		got, _ := sessionStore.GetSession(ctx, "session-42")
		if got.ArtifactName != "q4-report.pdf" || got.ChunkCount != 12 {
			t.Errorf("old artifact survived the replacement: %+v", got)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		sessionStore.DeleteSession(ctx, "session-42")
		if _, found := sessionStore.GetSession(ctx, "session-42"); found {
			t.Error("Session still present after delete")
		}
	})
}

func TestRedisConversationStore_History(t *testing.T) {
	_, internalStore := newTestStore(t)
	conversationStore := store.TestConversationStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	sessionId := "session-7"

	if conversationStore.ValidateSessionId(ctx, sessionId) {
		t.Error("unknown session should not validate")
	}

	if err := conversationStore.InitConversation(ctx, sessionId); err != nil {
		t.Fatalf("InitConversation failed: %v", err)
	}
	if !conversationStore.ValidateSessionId(ctx, sessionId) {
		t.Error("initialized session should validate")
	}

	for i := 0; i < 7; i++ {
		payload := jobModel.JobPayload{
			Question: "question",
			Answer:   "answer " + string(rune('a'+i)),
		}
		if err := conversationStore.TrySaveExchange(ctx, sessionId, payload); err != nil {
			t.Fatalf("TrySaveExchange failed: %v", err)
		}
	}

	err, history := conversationStore.GetHistory(ctx, sessionId)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != config.ConversationHistoryDepth {
		t.Fatalf("got %d entries, want the last %d", len(history), config.ConversationHistoryDepth)
	}
	// newest first
	if history[0] != "Q: question\nA: answer g" {
		t.Errorf("newest entry got %q", history[0])
	}

	t.Run("save against unknown session fails", func(t *testing.T) {
		if err := conversationStore.TrySaveExchange(ctx, "ghost", jobModel.JobPayload{}); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("clear removes the log", func(t *testing.T) {
		if err := conversationStore.ClearConversation(ctx, sessionId); err != nil {
			t.Fatal(err)
		}
		if conversationStore.ValidateSessionId(ctx, sessionId) {
			t.Error("cleared session should not validate")
		}
	})
}

func TestRedisProfileStore_Roundtrip(t *testing.T) {
	_, internalStore := newTestStore(t)
	profileStore := store.TestProfileStore(internalStore)

	ctx := context.Background()

	profile := sessionModel.Profile{
		Username: "analyst",
		FullName: "Data Analyst",
		Role:     "analyst",
		APIKey:   "sk-test",
	}
	if err := profileStore.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	got, found := profileStore.GetProfile(ctx, "analyst")
	if !found {
		t.Fatal("Profile not found after save")
	}
	if got.APIKey != "sk-test" {
		t.Errorf("APIKey got %s", got.APIKey)
	}

	if _, found := profileStore.GetProfile(ctx, "ghost"); found {
		t.Error("expected found=false for unknown user")
	}
}
