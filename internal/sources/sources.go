// Package sources discovers external data sources referenced by the Power
// Query code and probes SQL Server sources for reachability.
package sources

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"time"

	_ "github.com/microsoft/go-mssqldb"
)

// SQLServerRef is one Sql.Database reference found in the M code.
type SQLServerRef struct {
	Server   string `json:"server"`
	Database string `json:"database"`
}

func (r SQLServerRef) String() string {
	return fmt.Sprintf("%s/%s", r.Server, r.Database)
}

// Sql.Database("server", "db"[, options]) — only the two string literals
// matter here. Refs built dynamically from parameters are not resolvable
// without evaluating the M code, so they are skipped.
var sqlDatabaseRe = regexp.MustCompile(`Sql\.Database\(\s*"([^"]+)"\s*,\s*"([^"]+)"`)

// ParseRefs extracts the distinct SQL Server references from raw M code, in
// order of first appearance.
func ParseRefs(raw string) []SQLServerRef {
	var refs []SQLServerRef
	seen := make(map[SQLServerRef]bool)

	for _, m := range sqlDatabaseRe.FindAllStringSubmatch(raw, -1) {
		ref := SQLServerRef{Server: m[1], Database: m[2]}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// DSN builds a go-mssqldb connection string for a reference. User and
// password may be empty for integrated auth.
func DSN(ref SQLServerRef, user, password string) string {
	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     ref.Server,
		RawQuery: url.Values{"database": {ref.Database}}.Encode(),
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

// CheckResult reports the outcome of probing one reference.
type CheckResult struct {
	Ref     SQLServerRef
	OK      bool
	Err     string
	Elapsed time.Duration
}

const probeTimeout = 5 * time.Second

// Check opens a connection for the DSN and pings it. A failed probe is a
// result, not an error: broken sources are expected in stale reports.
func Check(ctx context.Context, ref SQLServerRef, dsn string) CheckResult {
	start := time.Now()
	result := CheckResult{Ref: ref}

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		result.Err = err.Error()
		result.Elapsed = time.Since(start)
		return result
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		result.Err = err.Error()
	} else {
		result.OK = true
	}
	result.Elapsed = time.Since(start)
	return result
}

// CheckAll probes every reference. credentials maps a server name to its
// user/password pair; missing servers are probed with integrated auth.
func CheckAll(ctx context.Context, refs []SQLServerRef, credentials func(server string) (user, password string)) []CheckResult {
	results := make([]CheckResult, 0, len(refs))
	for _, ref := range refs {
		var user, password string
		if credentials != nil {
			user, password = credentials(ref.Server)
		}
		results = append(results, Check(ctx, ref, DSN(ref, user, password)))
	}
	return results
}
