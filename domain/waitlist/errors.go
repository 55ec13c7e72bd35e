package waitlist

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Sentinel errors for the waitlist domain.
var (
	ErrDuplicateUsername = errors.New("twitter username already registered")
	ErrDuplicateWallet   = errors.New("wallet address already registered")
)

const (
	duplicateUsernameMessage = "This Twitter username is already registered"
	duplicateWalletMessage   = "This wallet address is already registered"

	pgUniqueViolation = "23505"
)

// Postgres reports the violated constraint by name. Both the names created by
// Initialize and the server defaults for inline UNIQUE columns are accepted.
var constraintToDomainError = map[string]error{
	"unique_twitter":                        ErrDuplicateUsername,
	"unique_wallet":                         ErrDuplicateWallet,
	"waitlist_entries_twitter_username_key": ErrDuplicateUsername,
	"waitlist_entries_wallet_address_key":   ErrDuplicateWallet,
}

// SQLite only reports "table.column" for unique violations.
var columnToDomainError = map[string]error{
	"twitter_username": ErrDuplicateUsername,
	"wallet_address":   ErrDuplicateWallet,
}

var domainErrorMessages = map[error]string{
	ErrDuplicateUsername: duplicateUsernameMessage,
	ErrDuplicateWallet:   duplicateWalletMessage,
}

// translateInsertError maps a driver error raised by an insert into the
// waitlist domain. Unique violations on a known constraint become conflict
// errors carrying the matching sentinel; anything else is a database error.
func translateInsertError(err error) error {
	if err == nil {
		return nil
	}

	domainErr, unique := uniqueViolation(err)
	if !unique {
		return apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	if domainErr == nil {
		return apperrors.NewConflictError("waitlist entry already exists", err)
	}

	return apperrors.NewConflictError(domainErrorMessages[domainErr], fmt.Errorf("%w: %w", domainErr, err))
}

// uniqueViolation reports whether err is a unique-constraint violation and,
// when the constraint is one of ours, which domain error it corresponds to.
func uniqueViolation(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil, false
		}
		return constraintToDomainError[pgErr.ConstraintName], true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
			return nil, false
		}
		return columnToDomainError[sqliteUniqueColumn(sqliteErr.Error())], true
	}

	return nil, false
}

// sqliteUniqueColumn extracts the column from
// "UNIQUE constraint failed: waitlist_entries.wallet_address".
func sqliteUniqueColumn(msg string) string {
	_, qualified, found := strings.Cut(msg, ":")
	if !found {
		return ""
	}

	// Composite constraints list several columns; the first one identifies ours.
	first, _, _ := strings.Cut(strings.TrimSpace(qualified), ",")
	_, column, found := strings.Cut(strings.TrimSpace(first), ".")
	if !found {
		return ""
	}

	return column
}
