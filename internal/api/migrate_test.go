package api

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordedExec struct {
	connID int
	query  string
}

type fakeDriver struct {
	mu     sync.Mutex
	nextID int
	execs  []recordedExec
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return &fakeConn{drv: d, id: d.nextID}, nil
}

func (d *fakeDriver) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.execs = nil
}

func (d *fakeDriver) recorded() []recordedExec {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]recordedExec, len(d.execs))
	copy(out, d.execs)
	return out
}

type fakeConn struct {
	drv *fakeDriver
	id  int
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c, query: query}, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return nil, driver.ErrSkip }

type fakeStmt struct {
	conn  *fakeConn
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	d := s.conn.drv
	d.mu.Lock()
	defer d.mu.Unlock()
	d.execs = append(d.execs, recordedExec{connID: s.conn.id, query: s.query})
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, driver.ErrSkip
}

var lockTestDriver = &fakeDriver{}

func init() {
	sql.Register("locktest", lockTestDriver)
}

func TestWithMigrationLock_LockAndUnlockShareConnection(t *testing.T) {
	lockTestDriver.reset()

	db, err := sql.Open("locktest", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	called := false
	err = withMigrationLock(context.Background(), db, 42, func() error {
		if got := len(lockTestDriver.recorded()); got != 1 {
			t.Fatalf("expected lock acquired before the callback, saw %d execs", got)
		}
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("withMigrationLock: %v", err)
	}
	if !called {
		t.Fatal("callback never ran")
	}

	execs := lockTestDriver.recorded()
	if len(execs) != 2 {
		t.Fatalf("expected lock+unlock, got %d execs", len(execs))
	}
	if !strings.Contains(execs[0].query, "pg_advisory_lock") {
		t.Fatalf("first exec = %q, want advisory lock", execs[0].query)
	}
	if !strings.Contains(execs[1].query, "pg_advisory_unlock") {
		t.Fatalf("second exec = %q, want advisory unlock", execs[1].query)
	}
	if execs[0].connID != execs[1].connID {
		t.Fatalf("lock on conn %d but unlock on conn %d", execs[0].connID, execs[1].connID)
	}
}

func TestWithMigrationLock_UnlocksOnCallbackError(t *testing.T) {
	lockTestDriver.reset()

	db, err := sql.Open("locktest", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	boom := errors.New("migration failed")
	err = withMigrationLock(context.Background(), db, 42, func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	execs := lockTestDriver.recorded()
	if len(execs) != 2 || !strings.Contains(execs[1].query, "pg_advisory_unlock") {
		t.Fatalf("expected unlock despite error, got %v", execs)
	}
	if execs[0].connID != execs[1].connID {
		t.Fatalf("lock on conn %d but unlock on conn %d", execs[0].connID, execs[1].connID)
	}
}
