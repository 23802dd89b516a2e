package mysql

import (
	"context"
	"fieldservice-dashboard/internal/storage"
	"fmt"
)

const createTable = `CREATE TABLE IF NOT EXISTS %s (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    record_key VARCHAR(128) NOT NULL,
    data JSON NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_%s_record_key (record_key)
)`

// Migrate создает таблицы коллекций, если их еще нет.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.mysql.Migrate"

	for _, resource := range storage.Resources() {
		table := tables[resource]
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createTable, table, table)); err != nil {
			return fmt.Errorf("%s: ошибка создания таблицы %s: %w", op, table, err)
		}
	}

	return nil
}
