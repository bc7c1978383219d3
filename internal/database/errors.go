package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassDuplicate
)

// ClassifyError sorts storage errors into retryable and terminal classes.
// Deadlocks and lock-wait timeouts are races that a fresh transaction may
// win; constraint violations and everything else are terminal.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213: // ER_LOCK_DEADLOCK
			return ErrorClassDeadlock
		case 1205: // ER_LOCK_WAIT_TIMEOUT
			return ErrorClassTransient
		case 1062: // ER_DUP_ENTRY
			return ErrorClassDuplicate
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorClassDuplicate
	}

	// sqlite (local development) reports lock contention as plain text
	if strings.Contains(err.Error(), "database is locked") {
		return ErrorClassTransient
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	class := ClassifyError(err)
	return class == ErrorClassTransient || class == ErrorClassDeadlock
}

func IsDuplicateKey(err error) bool {
	return ClassifyError(err) == ErrorClassDuplicate
}
