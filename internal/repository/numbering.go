package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// nextNumber returns prefix followed by the next 5-digit sequence for column.
// Callers insert under a unique index and retry on ErrDuplicateKey.
func nextNumber(ctx context.Context, db *gorm.DB, table, column, prefix string) (string, error) {
	var last []string
	err := db.WithContext(ctx).
		Table(table).
		Where(column+" LIKE ?", prefix+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix))
		if err != nil {
			return "", fmt.Errorf("unparseable number %q: %w", last[0], err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%05d", prefix, seq), nil
}
