package repo

import (
	"context"
	"strings"
)

// GetMerchantSettings fetches the settings row of a merchant.
func (r *PostgresRepository) GetMerchantSettings(ctx context.Context, merchantID string) (*MerchantSettings, error) {
	const q = `SELECT ` + settingsColumns + ` FROM merchant_settings WHERE merchant_id = $1`
	s, err := scanSettings(r.pool.QueryRow(ctx, q, merchantID))
	if err != nil {
		return nil, wrap(err, "get merchant settings")
	}
	return s, nil
}

// UpsertMerchantSettings writes the whole settings row, keyed on merchant_id.
func (r *PostgresRepository) UpsertMerchantSettings(ctx context.Context, s MerchantSettings) error {
	_, err := r.pool.Exec(ctx, upsertSettingsQuery(pgPlaceholder), append([]any{idOrNew(s.ID)}, settingsArgs(stampSettings(s))...)...)
	if err != nil {
		return wrap(err, "upsert merchant settings")
	}
	return nil
}

func upsertSettingsQuery(placeholder func(int) string) string {
	cols := strings.Count(settingsColumns, ",") + 1
	marks := make([]string, cols)
	for i := range marks {
		marks[i] = placeholder(i + 1)
	}
	return `INSERT INTO merchant_settings (` + settingsColumns + `)
VALUES (` + strings.Join(marks, ", ") + `)
` + settingsConflictClause()
}

func stampSettings(s MerchantSettings) MerchantSettings {
	s.CreatedAt = stamp(s.CreatedAt)
	s.UpdatedAt = stamp(s.UpdatedAt)
	return s
}
