package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// execScript replays canned outcomes for ExecContext calls so repository
// error handling can be driven without a live database.
type execScript struct {
	mu       sync.Mutex
	outcomes []error
	executed []string
}

func (s *execScript) next(query string) (driver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.executed = append(s.executed, query)
	if len(s.outcomes) == 0 {
		return nil, fmt.Errorf("unexpected exec: %s", query)
	}

	outcome := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	if outcome != nil {
		return nil, outcome
	}

	return driver.RowsAffected(1), nil
}

func (s *execScript) execCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.executed)
}

func newScriptedDB(script *execScript) *sqlx.DB {
	return sqlx.NewDb(sql.OpenDB(&scriptConnector{script: script}), "postgres")
}

type scriptConnector struct {
	script *execScript
}

func (c *scriptConnector) Connect(context.Context) (driver.Conn, error) {
	return &scriptConn{script: c.script}, nil
}

func (c *scriptConnector) Driver() driver.Driver {
	return scriptDriver{}
}

type scriptDriver struct{}

func (scriptDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type scriptConn struct {
	script *execScript
}

func (c *scriptConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not scripted")
}

func (c *scriptConn) Close() error {
	return nil
}

func (c *scriptConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not scripted")
}

func (c *scriptConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	return c.script.next(query)
}
