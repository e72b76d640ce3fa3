// README: Acceptance workflow tests (offers, verdicts, close cascade).
package acceptance

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"guardian/internal/modules/request"
	"guardian/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestRespondInvalidAction(t *testing.T) {
	svc := NewService(nil)
	err := svc.Respond(context.Background(), RespondCommand{
		RequestID: "r1", OwnerID: "o1", UserID: "u1", Action: "maybe",
	})
	if err != ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestAcceptIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_accept")
	responder := mustCreateUser(t, db, "responder_accept")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	for i := 0; i < 2; i++ {
		if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: responder}); err != nil {
			t.Fatalf("accept attempt %d: %v", i+1, err)
		}
	}

	var n int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM accepted_requests WHERE request_id = $1`, string(reqID),
	).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 responder row, got %d", n)
	}

	ar, err := svc.store.Get(ctx, reqID, responder)
	if err != nil {
		t.Fatalf("get row: %v", err)
	}
	if ar.Status != ResponderAccepted || ar.CreatorStatus != CreatorPending {
		t.Fatalf("unexpected row state: %s/%s", ar.Status, ar.CreatorStatus)
	}
}

func TestAcceptOwnRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_self")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: owner}); err != ErrOwnRequest {
		t.Fatalf("expected ErrOwnRequest, got %v", err)
	}
}

func TestAcceptRejectsNonOpen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_nonopen")
	responder := mustCreateUser(t, db, "responder_nonopen")

	cases := []struct {
		name        string
		status      string
		meetingTime time.Time
	}{
		{"closed request", "closed", time.Now().Add(24 * time.Hour)},
		{"canceled request", "canceled", time.Now().Add(24 * time.Hour)},
		{"expired open request", "open", time.Now().Add(-time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reqID := mustCreateRequest(t, db, owner, tc.status, tc.meetingTime)
			if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: responder}); err != ErrConflict {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
			var n int
			if err := db.QueryRow(ctx, `
				SELECT COUNT(*) FROM accepted_requests WHERE request_id = $1`, string(reqID),
			).Scan(&n); err != nil {
				t.Fatalf("count rows: %v", err)
			}
			if n != 0 {
				t.Fatalf("rejected accept must not leave a row, found %d", n)
			}
		})
	}
}

func TestAcceptMissingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))

	err := svc.Accept(context.Background(), AcceptCommand{RequestID: types.NewID(), UserID: "u1"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeclineIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_decline")
	responder := mustCreateUser(t, db, "responder_decline")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: responder}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// First decline removes the row, the second finds nothing and still
	// succeeds.
	for i := 0; i < 2; i++ {
		if err := svc.Decline(ctx, DeclineCommand{RequestID: reqID, UserID: responder}); err != nil {
			t.Fatalf("decline attempt %d: %v", i+1, err)
		}
	}
	if _, err := svc.store.Get(ctx, reqID, responder); err != ErrNotFound {
		t.Fatalf("expected row gone, got %v", err)
	}
}

func TestRespondAcceptAndDecline(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_respond")
	first := mustCreateUser(t, db, "responder_first")
	second := mustCreateUser(t, db, "responder_second")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	for _, r := range []types.ID{first, second} {
		if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: r}); err != nil {
			t.Fatalf("accept: %v", err)
		}
	}

	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: first, Action: ActionAccept,
	}); err != nil {
		t.Fatalf("respond accept: %v", err)
	}
	ar, err := svc.store.Get(ctx, reqID, first)
	if err != nil {
		t.Fatalf("get confirmed responder: %v", err)
	}
	if ar.CreatorStatus != CreatorAccepted {
		t.Fatalf("expected creator_status accepted, got %s", ar.CreatorStatus)
	}

	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: second, Action: ActionDecline,
	}); err != nil {
		t.Fatalf("respond decline: %v", err)
	}
	if _, err := svc.store.Get(ctx, reqID, second); err != ErrNotFound {
		t.Fatalf("declined responder row should be gone, got %v", err)
	}

	// Declining an absent responder is a no-op.
	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: second, Action: ActionDecline,
	}); err != nil {
		t.Fatalf("repeat decline: %v", err)
	}

	// Accepting an absent responder is not.
	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: second, Action: ActionAccept,
	}); err != ErrNotFound {
		t.Fatalf("accept absent responder: expected ErrNotFound, got %v", err)
	}
}

func TestRespondNonOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_guard")
	responder := mustCreateUser(t, db, "responder_guard")
	intruder := mustCreateUser(t, db, "intruder_guard")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: responder}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: intruder, UserID: responder, Action: ActionAccept,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestConcurrentAcceptSameRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_concurrent")
	responder := mustCreateUser(t, db, "responder_concurrent")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: responder})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var n int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM accepted_requests WHERE request_id = $1`, string(reqID),
	).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row under concurrent accepts, got %d", n)
	}
}

// TestCloseCascade covers the mixed-verdict scenario: closing a request
// declines its pending responders and leaves confirmed ones alone, and the
// owner listing filters the declined rows out.
func TestCloseCascade(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db))
	reqSvc := request.NewService(request.NewStore(db))
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner_cascade")
	confirmed := mustCreateUser(t, db, "responder_confirmed")
	pending := mustCreateUser(t, db, "responder_pending")
	declined := mustCreateUser(t, db, "responder_declined")
	reqID := mustCreateRequest(t, db, owner, "open", time.Now().Add(24*time.Hour))

	for _, r := range []types.ID{confirmed, pending, declined} {
		if err := svc.Accept(ctx, AcceptCommand{RequestID: reqID, UserID: r}); err != nil {
			t.Fatalf("accept: %v", err)
		}
	}
	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: confirmed, Action: ActionAccept,
	}); err != nil {
		t.Fatalf("confirm responder: %v", err)
	}
	if err := svc.Respond(ctx, RespondCommand{
		RequestID: reqID, OwnerID: owner, UserID: declined, Action: ActionDecline,
	}); err != nil {
		t.Fatalf("decline responder: %v", err)
	}

	if err := reqSvc.Update(ctx, request.UpdateCommand{
		RequestID:     reqID,
		OwnerID:       owner,
		StartLocation: "Main Square",
		EndLocation:   "River Park",
		MeetingTime:   time.Now().Add(-time.Hour),
		Type:          request.TypeWalk,
		Status:        request.StatusClosed,
	}); err != nil {
		t.Fatalf("close request: %v", err)
	}

	// Pending responder was declined by the cascade.
	ar, err := svc.store.Get(ctx, reqID, pending)
	if err != nil {
		t.Fatalf("get pending responder: %v", err)
	}
	if ar.CreatorStatus != CreatorDeclined {
		t.Fatalf("expected cascade to decline pending responder, got %s", ar.CreatorStatus)
	}

	// Confirmed responder is untouched.
	ar, err = svc.store.Get(ctx, reqID, confirmed)
	if err != nil {
		t.Fatalf("get confirmed responder: %v", err)
	}
	if ar.CreatorStatus != CreatorAccepted {
		t.Fatalf("cascade must not touch confirmed responder, got %s", ar.CreatorStatus)
	}

	byRequest, err := svc.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	responders := byRequest[reqID]
	if len(responders) != 1 {
		t.Fatalf("expected only the confirmed responder after close, got %d", len(responders))
	}
	if responders[0].UserID != confirmed {
		t.Fatalf("expected confirmed responder %s, got %s", confirmed, responders[0].UserID)
	}
}

func mustCreateUser(t *testing.T, db *pgxpool.Pool, slug string) types.ID {
	t.Helper()
	id := types.NewID()
	_, err := db.Exec(context.Background(), `
		INSERT INTO users (id, name, surname, email, password_hash)
		VALUES ($1, $2, $3, $4, 'x')`,
		string(id), slug, "Tester", fmt.Sprintf("%s@example.com", string(id)),
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func mustCreateRequest(t *testing.T, db *pgxpool.Pool, owner types.ID, status string, meetingTime time.Time) types.ID {
	t.Helper()
	id := types.NewID()
	_, err := db.Exec(context.Background(), `
		INSERT INTO requests (id, user_id, start_location, end_location, meeting_time, request_type, request_status)
		VALUES ($1, $2, 'Main Square', 'River Park', $3, 'Walk', $4)`,
		string(id), string(owner), meetingTime, status,
	)
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return id
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("GUARDIAN_TEST_DSN")
	if dsn == "" {
		t.Skip("GUARDIAN_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE comments, likes, accepted_requests, requests, users"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return db
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
