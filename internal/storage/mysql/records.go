package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fieldservice-dashboard/internal/storage"
	"fmt"
)

// Таблицы по коллекциям. Имя таблицы в запрос подставляется только отсюда.
var tables = map[storage.Resource]string{
	storage.ResourceEngineers:     "engineers",
	storage.ResourceMachines:      "machines",
	storage.ResourceStockParts:    "stock_parts",
	storage.ResourceServiceOrders: "service_orders",
	storage.ResourceLeveling:      "leveling",
}

func tableFor(resource storage.Resource) (string, error) {
	table, ok := tables[resource]
	if !ok {
		return "", storage.ErrUnknownResource
	}
	return table, nil
}

func (s *Storage) GetRecords(ctx context.Context, resource storage.Resource) ([]storage.Record, error) {
	const op = "storage.mysql.GetRecords"

	table, err := tableFor(resource)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, resource, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT data FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка запроса %s: %w", op, table, err)
	}
	defer rows.Close()

	records := make([]storage.Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования %s: %w", op, table, err)
		}

		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, table, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка чтения строк %s: %w", op, table, err)
	}

	return records, nil
}

func (s *Storage) GetRecord(ctx context.Context, resource storage.Resource, key string) (storage.Record, error) {
	const op = "storage.mysql.GetRecord"

	table, err := tableFor(resource)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, resource, err)
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, "SELECT data FROM "+table+" WHERE record_key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, table, key, storage.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения %s/%s: %w", op, table, key, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, table, key, err)
	}

	return rec, nil
}

// UpdateStockPart вливает поля в сохраненную запись запчасти и возвращает результат.
func (s *Storage) UpdateStockPart(ctx context.Context, partNumber string, fields map[string]interface{}) (storage.Record, error) {
	const op = "storage.mysql.UpdateStockPart"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: старт транзакции: %w", op, err)
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM stock_parts WHERE record_key = ? FOR UPDATE`, partNumber).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %s: %w", op, partNumber, storage.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка блокировки запчасти %s: %w", op, partNumber, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, partNumber, err)
	}
	for k, v := range fields {
		rec[k] = v
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка сериализации %s: %w", op, partNumber, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE stock_parts SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE record_key = ?`, data, partNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка обновления запчасти %s: %w", op, partNumber, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: ошибка завершения транзакции: %w", op, err)
	}

	return rec, nil
}

// SaveRecord - upsert по record_key, нужен для загрузки выгрузок.
func (s *Storage) SaveRecord(ctx context.Context, resource storage.Resource, key string, rec storage.Record) error {
	const op = "storage.mysql.SaveRecord"

	table, err := tableFor(resource)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, resource, err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: ошибка сериализации %s/%s: %w", op, table, key, err)
	}

	stmt := "INSERT INTO " + table + " (record_key, data) VALUES (?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = CURRENT_TIMESTAMP"
	if _, err := s.db.ExecContext(ctx, stmt, key, data); err != nil {
		return fmt.Errorf("%s: ошибка сохранения %s/%s: %w", op, table, key, err)
	}

	return nil
}

func decodeRecord(raw []byte) (storage.Record, error) {
	rec := make(storage.Record)
	if len(raw) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
