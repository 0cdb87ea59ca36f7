package pgstore

import "regexp"

// errSQLSyntax is a very loose aggregation of error codes
// originating from PostgreSQL itself
// that are some sort of syntax issue in the statement or datatype mismatch.
//
// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
var errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)
