package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// NextSequence advances the counter row of table's "<table>_sequence" companion and returns the new value.
//
// The update and read happen in one statement, so concurrent callers never see the same number.
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sequence table %s_sequence has no counter row", table)
	} else if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return sequence, nil
}
