package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Alice@Example.com", "hash", "token-1")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}

	found, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Fatal("Expected created user back by email")
	}
	if found.Confirmed {
		t.Error("Expected unconfirmed account")
	}

	if missing, _ := repo.GetUserByEmail(ctx, "nobody@example.com"); missing != nil {
		t.Error("Expected nil for unknown email")
	}

	confirmed, err := repo.ConfirmUser(ctx, "token-1")
	if err != nil {
		t.Fatalf("ConfirmUser failed: %v", err)
	}
	if confirmed == nil || !confirmed.Confirmed {
		t.Fatal("Expected confirmed user")
	}
	if confirmed.ConfirmationToken != "" {
		t.Error("Expected confirmation token cleared")
	}

	// Tokens are single-use
	if again, _ := repo.ConfirmUser(ctx, "token-1"); again != nil {
		t.Error("Expected nil for already-used token")
	}

	if count, _ := repo.GetUserCount(ctx); count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "alice@example.com", "hash", "t1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := repo.CreateUser(ctx, "alice@example.com", "hash", "t2"); err == nil {
		t.Error("Expected unique constraint violation for duplicate email")
	}
}

func TestSessionRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	user, _ := users.CreateUser(ctx, "alice@example.com", "hash", "t1")

	session, err := repo.CreateSession(ctx, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	found, err := repo.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if found == nil || found.UserID != user.ID {
		t.Fatal("Expected session back by token")
	}

	if missing, _ := repo.GetSession(ctx, "unknown"); missing != nil {
		t.Error("Expected nil for unknown token")
	}

	// Expired sessions get purged, live ones survive
	expired, _ := repo.CreateSession(ctx, user.ID, -time.Minute)
	removed, err := repo.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 expired session removed, got %d", removed)
	}
	if gone, _ := repo.GetSession(ctx, expired.Token); gone != nil {
		t.Error("Expected expired session gone")
	}
	if live, _ := repo.GetSession(ctx, session.Token); live == nil {
		t.Error("Expected live session to survive the purge")
	}

	if err := repo.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if count, _ := repo.GetSessionCount(ctx); count != 0 {
		t.Errorf("Expected 0 sessions, got %d", count)
	}
}

func TestPreferenceRepositoryRevision(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	user, _ := users.CreateUser(ctx, "alice@example.com", "hash", "t1")

	if missing, _ := repo.GetPreferences(ctx, user.ID); missing != nil {
		t.Error("Expected nil before insert")
	}

	record, err := repo.InsertPreferences(ctx, user.ID, `{"darkMode":false}`)
	if err != nil {
		t.Fatalf("InsertPreferences failed: %v", err)
	}
	if record.Revision != 1 {
		t.Errorf("Expected initial revision 1, got %d", record.Revision)
	}

	ok, err := repo.UpdatePreferences(ctx, user.ID, `{"darkMode":true}`, 1)
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected update with matching revision to succeed")
	}

	// The stale revision loses
	ok, err = repo.UpdatePreferences(ctx, user.ID, `{"darkMode":false}`, 1)
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if ok {
		t.Error("Expected update with stale revision to fail")
	}

	current, _ := repo.GetPreferences(ctx, user.ID)
	if current.Revision != 2 {
		t.Errorf("Expected revision 2, got %d", current.Revision)
	}
	if current.Preferences != `{"darkMode":true}` {
		t.Errorf("Expected winning blob preserved, got %s", current.Preferences)
	}
}
