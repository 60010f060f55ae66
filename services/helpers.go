package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/Dosada05/scouting-system/repositories"
)

// TxRunner runs fn inside one database transaction.
type TxRunner func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error

// NewSQLTxRunner commits when fn returns nil and rolls back on error or panic.
func NewSQLTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) (err error) {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			} else if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
				}
			} else if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}()
		return fn(tx)
	}
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
