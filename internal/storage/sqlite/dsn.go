package sqlite

import (
	"fmt"
	"net/url"

	"github.com/todo-list-api/todo-list-api/config"
)

// busyTimeoutMs is how long a connection waits on a locked database before
// the driver reports SQLITE_BUSY.
const busyTimeoutMs = 5000

// DSN builds a go-sqlite3 connection string. Pragmas are passed as DSN
// parameters so every pooled connection gets them.
func DSN(cfg *config.DatabaseConfig) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprintf("%d", busyTimeoutMs))
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	// The path is percent-encoded so '?' and '#' in it are not read as URI syntax.
	path := (&url.URL{Path: cfg.Path}).EscapedPath()
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}
