package sqlgen

import "fmt"

// IsolationLevel is a transaction isolation level.
type IsolationLevel string

const (
	ReadCommitted  IsolationLevel = "READ COMMITTED"
	RepeatableRead IsolationLevel = "REPEATABLE READ"
	Serializable   IsolationLevel = "SERIALIZABLE"
)

// Begin renders BEGIN TRANSACTION at the given level, SERIALIZABLE when
// level is empty.
func Begin(level IsolationLevel) (string, error) {
	switch level {
	case "":
		level = Serializable
	case ReadCommitted, RepeatableRead, Serializable:
	default:
		return "", fmt.Errorf("unsupported isolation level %q", level)
	}
	return fmt.Sprintf("BEGIN TRANSACTION ISOLATION LEVEL %s;", level), nil
}

// Commit renders the statement ending a transaction.
func Commit() string {
	return "END TRANSACTION;"
}

// Rollback renders ROLLBACK.
func Rollback() string {
	return "ROLLBACK;"
}
