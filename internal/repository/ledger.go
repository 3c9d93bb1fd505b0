package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/model"
)

// ErrAlreadyRecorded is returned when a transaction with the same source key
// already exists for the user
var ErrAlreadyRecorded = errors.New("transaction already recorded for this source")

// LedgerRepository handles the append-only point transaction ledger
type LedgerRepository struct {
	db database.Database
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db database.Database) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append writes a transaction to the ledger (idempotent per source key).
// Returns ErrAlreadyRecorded if the user already has an entry for the
// transaction's source key.
func (r *LedgerRepository) Append(ctx context.Context, tx *model.PointTransaction) error {
	if tx.SourceKey != "" {
		recorded, err := r.HasSource(ctx, tx.UserID, tx.SourceKey)
		if err != nil {
			return err
		}
		if recorded {
			return ErrAlreadyRecorded
		}
	}

	query := `
		CREATE point_transaction CONTENT {
			user: type::record($user_id),
			type: $type,
			amount: $amount,
			reason: $reason,
			source_key: $source_key,
			metadata: $metadata,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":    tx.UserID,
		"type":       string(tx.Type),
		"amount":     tx.Amount,
		"reason":     tx.Reason,
		"source_key": tx.SourceKey,
		"metadata":   tx.Metadata,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		// Race against a concurrent award for the same source
		if isUniqueConstraintError(err) {
			return ErrAlreadyRecorded
		}
		return err
	}

	for _, data := range rows(result) {
		tx.ID = convertSurrealID(data["id"])
		if t := getTime(data, "created_on"); t != nil {
			tx.CreatedOn = *t
		}
		break
	}
	return nil
}

// HasSource checks whether a user already has a ledger entry for a source key
func (r *LedgerRepository) HasSource(ctx context.Context, userID, sourceKey string) (bool, error) {
	query := `
		SELECT count() as count FROM point_transaction
		WHERE user = type::record($user_id)
		AND source_key = $source_key
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id":    userID,
		"source_key": sourceKey,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count") > 0, nil
	}
	return false, nil
}

// SumBetween sums a user's transaction amounts in [from, to)
func (r *LedgerRepository) SumBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT math::sum(amount) as total FROM point_transaction
		WHERE user = type::record($user_id)
		AND created_on >= $from
		AND created_on < $to
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"from":    from.UTC().Format(time.RFC3339),
		"to":      to.UTC().Format(time.RFC3339),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "total"), nil
	}
	return 0, nil
}

// ListByUser retrieves a user's ledger entries, newest first
func (r *LedgerRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error) {
	query := `
		SELECT * FROM point_transaction
		WHERE user = type::record($user_id)
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	txs := make([]*model.PointTransaction, 0)
	for _, data := range rows(result) {
		tx := &model.PointTransaction{
			ID:        convertSurrealID(data["id"]),
			UserID:    convertSurrealID(data["user"]),
			Type:      model.TransactionType(getString(data, "type")),
			Amount:    getInt(data, "amount"),
			Reason:    getString(data, "reason"),
			SourceKey: getString(data, "source_key"),
			Metadata:  getStringMap(data, "metadata"),
		}
		if t := getTime(data, "created_on"); t != nil {
			tx.CreatedOn = *t
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
