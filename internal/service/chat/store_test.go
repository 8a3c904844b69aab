package chat

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"gridchat/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, nil, nil, nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.RegisterUser(ctx, "bob", "short"); err == nil {
		t.Fatal("short password must be rejected")
	}
	if _, err := svc.RegisterUser(ctx, "  ", "secret1"); err == nil {
		t.Fatal("blank username must be rejected")
	}

	logged, err := svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("login returned wrong user: %+v", logged)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatal("wrong password must be rejected")
	}
}

func TestThreadLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, nil, nil, nil)
	ctx := context.Background()
	bot := testBot(t, svc, models.Bot{})

	first, err := svc.CreateThread(ctx, 1, bot.ID, "first thread")
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if _, err := svc.CreateThread(ctx, 1, bot.ID, "second thread"); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	// appending bumps last_message_at, so the first thread sorts first again
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.AppendTurn(ctx, models.Message{
		UserID: 1, BotID: bot.ID, ThreadID: first.ID,
		Role: models.RoleUser, Content: "hello",
	}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	threads, err := svc.ListThreads(ctx, 1)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(threads) != 2 || threads[0].ID != first.ID {
		t.Fatalf("expected most recently active thread first, got %+v", threads)
	}

	thread, turns, err := svc.GetThreadWithTurns(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("GetThreadWithTurns: %v", err)
	}
	if thread.Title != "first thread" || len(turns) != 1 {
		t.Fatalf("unexpected thread state: %+v, %d turns", thread, len(turns))
	}

	if _, _, err := svc.GetThreadWithTurns(ctx, 2, first.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("other users must not see the thread, got %v", err)
	}

	if err := svc.DeleteThread(ctx, 2, first.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("other users must not delete the thread, got %v", err)
	}
	if err := svc.DeleteThread(ctx, 1, first.ID); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}
	if turns, err := svc.ListTurns(ctx, first.ID); err != nil || len(turns) != 0 {
		t.Fatalf("turns must be removed with the thread: %v, %d", err, len(turns))
	}
}

func TestAppendTurnRoundTripsAttachments(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, nil, nil, nil)
	ctx := context.Background()
	bot := testBot(t, svc, models.Bot{})
	thread, err := svc.CreateThread(ctx, 1, bot.ID, "t")
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	attachments := []models.Attachment{{Name: "a.png", Path: "uploads/a.png", Category: "image", SizeKB: "3.5"}}
	if _, err := svc.AppendTurn(ctx, models.Message{
		UserID: 1, BotID: bot.ID, ThreadID: thread.ID,
		Role: models.RoleUser, Content: "see attached", Attachments: attachments,
	}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	turns, err := svc.ListTurns(ctx, thread.ID)
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != 1 || len(turns[0].Attachments) != 1 {
		t.Fatalf("attachments lost: %+v", turns)
	}
	if turns[0].Attachments[0] != attachments[0] {
		t.Fatalf("attachment fields changed: %+v", turns[0].Attachments[0])
	}
}
