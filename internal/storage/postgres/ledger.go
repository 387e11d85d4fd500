package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

const recordColumns = `id, inventory_type, blood_group, quantity, email,
	organisation_id, donar_id, hospital_id, created_at`

// AppendRecord inserts rec. With a stock check, a transaction-scoped
// advisory lock on (organisation, blood group) serialises the
// availability read and the insert against concurrent withdrawals.
func (s *Store) AppendRecord(ctx context.Context, rec core.InventoryRecord, check *core.StockCheck) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after commit

	if check != nil {
		lockKey := check.Organisation + ":" + string(check.BloodGroup)
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("acquire stock lock: %w", err)
		}

		var available int64
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(CASE WHEN inventory_type = 'in' THEN quantity ELSE -quantity END), 0)::bigint
			FROM inventory_records
			WHERE organisation_id = $1 AND blood_group = $2`,
			check.Organisation, string(check.BloodGroup),
		).Scan(&available)
		if err != nil {
			return fmt.Errorf("compute availability: %w", err)
		}

		if check.Quantity > available {
			return &core.InsufficientStockError{
				BloodGroup: check.BloodGroup,
				Available:  available,
				Requested:  check.Quantity,
			}
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, string(rec.InventoryType), string(rec.BloodGroup), rec.Quantity, rec.Email,
		rec.Organisation, nullable(rec.Donor), nullable(rec.Hospital), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// SumQuantity totals matching records.
func (s *Store) SumQuantity(ctx context.Context, q core.SumQuery) (int64, error) {
	wb := newWhereBuilder()
	wb.Add("blood_group", string(q.BloodGroup))
	wb.Add("inventory_type", string(q.Direction))
	wb.Add("organisation_id", q.Scope.Organisation)
	where, args := wb.Build()

	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)::bigint FROM inventory_records`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum quantity: %w", err)
	}
	return total, nil
}

// FindRecords returns matching records newest first.
func (s *Store) FindRecords(ctx context.Context, f core.RecordFilter, limit int) ([]core.InventoryRecord, error) {
	wb := recordFilterWhere(f)
	where, args := wb.Build()

	query := `SELECT ` + recordColumns + ` FROM inventory_records` + where + ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", wb.NextArgIndex())
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	recs := []core.InventoryRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return recs, nil
}

// DistinctRefs returns distinct non-null values of field among matching records.
func (s *Store) DistinctRefs(ctx context.Context, field core.RefField, f core.RecordFilter) ([]string, error) {
	col, ok := refColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown reference field %q", field)
	}

	wb := recordFilterWhere(f)
	wb.AddRaw(col + " IS NOT NULL")
	where, args := wb.Build()

	rows, err := s.pool.Query(ctx, `SELECT DISTINCT `+col+` FROM inventory_records`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", field, err)
	}
	return ids, nil
}

func scanRecord(row pgx.Row) (core.InventoryRecord, error) {
	var (
		rec             core.InventoryRecord
		dir, group      string
		donor, hospital *string
	)
	err := row.Scan(&rec.ID, &dir, &group, &rec.Quantity, &rec.Email,
		&rec.Organisation, &donor, &hospital, &rec.CreatedAt)
	rec.InventoryType = core.Direction(dir)
	rec.BloodGroup = core.BloodGroup(group)
	rec.Donor = deref(donor)
	rec.Hospital = deref(hospital)
	return rec, err
}
