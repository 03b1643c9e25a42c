package tenant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"orbithr/internal/domain/auth"
	"orbithr/internal/platform/querier"
)

type cannedRow struct{}

func (cannedRow) Scan(dest ...any) error {
	for _, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = "id"
		case *time.Time:
			*p = time.Now()
		}
	}
	return nil
}

// recordingTx captures every statement issued inside the registration
// transaction. Only the methods Register touches are implemented.
type recordingTx struct {
	pgx.Tx
	statements []string
	committed  bool
}

func (t *recordingTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.statements = append(t.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (t *recordingTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	t.statements = append(t.statements, sql)
	return cannedRow{}
}

func (t *recordingTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *recordingTx) Rollback(context.Context) error { return nil }

type recordingDB struct {
	tx *recordingTx
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (d *recordingDB) QueryRow(context.Context, string, ...any) pgx.Row        { return cannedRow{} }
func (d *recordingDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (d *recordingDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

var _ querier.Querier = (*recordingDB)(nil)

func TestRegisterSeedsPermissionCatalog(t *testing.T) {
	tx := &recordingTx{}
	store := NewStore(&recordingDB{tx: tx})

	_, err := store.Register(context.Background(), RegisterInput{
		Name:          "Acme",
		Slug:          "acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "sturdy-password",
		Plan:          PlanFree,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !tx.committed {
		t.Fatal("transaction was not committed")
	}

	catalogInserts := 0
	lastCatalog := -1
	firstLink := -1
	for i, stmt := range tx.statements {
		switch {
		case strings.Contains(stmt, "INSERT INTO permissions"):
			catalogInserts++
			lastCatalog = i
		case strings.Contains(stmt, "INSERT INTO role_permissions"):
			if firstLink == -1 {
				firstLink = i
			}
		}
	}
	if catalogInserts != len(auth.DefaultPermissions) {
		t.Fatalf("catalog inserts = %d, want %d", catalogInserts, len(auth.DefaultPermissions))
	}
	if firstLink == -1 {
		t.Fatal("no role_permissions insert recorded")
	}
	if lastCatalog > firstLink {
		t.Fatalf("catalog insert at index %d ran after first role link at %d", lastCatalog, firstLink)
	}
}
