package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresDetail holds the server-side fields of a *pgconn.PgError.
type PostgresDetail struct {
	Code       string `json:"code"`
	Table      string `json:"table,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump is a log-friendly view of an error chain.
type ErrorDump struct {
	TopMessage string          `json:"top_message"`
	Code       Code            `json:"code,omitempty"`
	Chain      []string        `json:"chain,omitempty"`
	Postgres   *PostgresDetail `json:"postgres,omitempty"`
}

// Dump flattens an error chain for structured logs. Postgres errors raised by
// the SQL cart store get their server-side fields copied out.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		d.Postgres = &PostgresDetail{
			Code:       pgErr.Code,
			Table:      pgErr.TableName,
			Constraint: pgErr.ConstraintName,
			Detail:     pgErr.Detail,
			Message:    pgErr.Message,
		}
	}
	return d
}
