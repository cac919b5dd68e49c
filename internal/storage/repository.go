package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	findCargoSQL = `SELECT
        id,
        consignor_id,
        value,
        quantity,
        units_per_box,
        box_width,
        box_height,
        box_depth,
        weight,
        export_port_id,
        import_port_id,
        created_at
    FROM cargos
    WHERE id = $1;`

	findPortSQL = `SELECT id, name FROM ports WHERE id = $1;`

	findScheduleSQL = `SELECT
        id, carrier, export_port_id, import_port_id, etd, eta
    FROM schedules
    WHERE id = $1;`

	listSchedulesByYearMonthSQL = `SELECT
        id, carrier, export_port_id, import_port_id, etd, eta
    FROM schedules
    WHERE EXTRACT(YEAR FROM etd) = $1
      AND EXTRACT(MONTH FROM etd) = $2
    ORDER BY etd;`

	findPredictionSQL = `SELECT year, month, freight_cost_index
    FROM predictions
    WHERE year = $1 AND month = $2;`

	listPredictionsWithinPeriodSQL = `SELECT year, month, freight_cost_index
    FROM predictions
    WHERE (year * 12 + month) >= ($1 * 12 + $2)
      AND (year * 12 + month) <= ($3 * 12 + $4)
    ORDER BY year, month;`

	insertQuotationSQL = `INSERT INTO quotations (
        id,
        lineage_key,
        consignor_id,
        forwarder_id,
        status,
        schedule_id,
        cargo_ids,
        total_cost,
        breakdown
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9
    )
    RETURNING created_at;`

	listQuotationsByLineageAndStatusSQL = `SELECT
        id, lineage_key, consignor_id, forwarder_id, status, schedule_id,
        cargo_ids, total_cost, breakdown, created_at
    FROM quotations
    WHERE lineage_key = $1
      AND status = $2
    ORDER BY created_at DESC;`

	listQuotationsByConsignorAndStatusSQL = `SELECT
        id, lineage_key, consignor_id, forwarder_id, status, schedule_id,
        cargo_ids, total_cost, breakdown, created_at
    FROM quotations
    WHERE consignor_id = $1
      AND status = $2
    ORDER BY created_at DESC;`

	listRecentQuotationsSQL = `SELECT
        id, lineage_key, consignor_id, forwarder_id, status, schedule_id,
        cargo_ids, total_cost, breakdown, created_at
    FROM quotations
    ORDER BY created_at DESC
    LIMIT $1;`

	listDetailedLineageKeysSQL = `SELECT DISTINCT lineage_key
    FROM quotations
    WHERE status = 'DETAIL_INFO'
    ORDER BY lineage_key;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// CargoStore fetches shipper cargo records.
type CargoStore interface {
	FindCargo(ctx context.Context, id string) (CargoRecord, error)
}

// PortStore resolves port references.
type PortStore interface {
	FindPort(ctx context.Context, id int64) (Port, error)
}

// ScheduleStore fetches sailings by id and by sailing month.
type ScheduleStore interface {
	FindSchedule(ctx context.Context, id int64) (Schedule, error)
	ListSchedulesByYearMonth(ctx context.Context, year, month int) ([]Schedule, error)
}

// PredictionStore exposes the monthly freight-cost-index series.
type PredictionStore interface {
	FindPrediction(ctx context.Context, year, month int) (PredictionPoint, error)
	ListPredictionsWithinPeriod(ctx context.Context, startYear, startMonth, endYear, endMonth int) ([]PredictionPoint, error)
}

// QuotationStore is the append-only quotation lineage. There is no update;
// every write is an insert.
type QuotationStore interface {
	InsertQuotation(ctx context.Context, q Quotation) (Quotation, error)
	ListQuotationsByLineageAndStatus(ctx context.Context, lineageKey string, status QuotationStatus) ([]Quotation, error)
	ListQuotationsByConsignorAndStatus(ctx context.Context, consignorID string, status QuotationStatus) ([]Quotation, error)
	ListRecentQuotations(ctx context.Context, limit int) ([]Quotation, error)
	ListDetailedLineageKeys(ctx context.Context) ([]string, error)
}

// AdvisoryLocker exposes advisory lock helpers for lineage serialization.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to cargos, ports, schedules, predictions and the
// quotation lineage.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

// FindCargo fetches one cargo record by id.
func (s *Store) FindCargo(ctx context.Context, id string) (CargoRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return CargoRecord{}, err
	}

	var (
		record                                          CargoRecord
		valueStr, widthStr, heightStr, depthStr, wtsStr string
	)
	row := pool.QueryRow(ctx, findCargoSQL, id)
	if scanErr := row.Scan(
		&record.ID,
		&record.ConsignorID,
		&valueStr,
		&record.Quantity,
		&record.UnitsPerBox,
		&widthStr,
		&heightStr,
		&depthStr,
		&wtsStr,
		&record.ExportPortID,
		&record.ImportPortID,
		&record.CreatedAt,
	); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return CargoRecord{}, apperr.ErrCargoNotFound
		}
		return CargoRecord{}, fmt.Errorf("find cargo: %w", scanErr)
	}

	fields := []struct {
		dst  *decimal.Decimal
		src  string
		name string
	}{
		{&record.Value, valueStr, "value"},
		{&record.BoxWidth, widthStr, "box width"},
		{&record.BoxHeight, heightStr, "box height"},
		{&record.BoxDepth, depthStr, "box depth"},
		{&record.Weight, wtsStr, "weight"},
	}
	for _, f := range fields {
		parsed, convErr := decimal.NewFromString(f.src)
		if convErr != nil {
			return CargoRecord{}, fmt.Errorf("parse cargo %s: %w", f.name, convErr)
		}
		*f.dst = parsed
	}

	return record, nil
}

// FindPort fetches one port by id.
func (s *Store) FindPort(ctx context.Context, id int64) (Port, error) {
	pool, err := s.getPool()
	if err != nil {
		return Port{}, err
	}

	var port Port
	if scanErr := pool.QueryRow(ctx, findPortSQL, id).Scan(&port.ID, &port.Name); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return Port{}, apperr.ErrPortNotFound
		}
		return Port{}, fmt.Errorf("find port: %w", scanErr)
	}
	return port, nil
}

// FindSchedule fetches one sailing by id.
func (s *Store) FindSchedule(ctx context.Context, id int64) (Schedule, error) {
	pool, err := s.getPool()
	if err != nil {
		return Schedule{}, err
	}

	var sched Schedule
	row := pool.QueryRow(ctx, findScheduleSQL, id)
	if scanErr := row.Scan(&sched.ID, &sched.Carrier, &sched.ExportPortID, &sched.ImportPortID, &sched.ETD, &sched.ETA); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return Schedule{}, apperr.ErrScheduleNotFound
		}
		return Schedule{}, fmt.Errorf("find schedule: %w", scanErr)
	}
	return sched, nil
}

// ListSchedulesByYearMonth lists sailings departing in the given month.
func (s *Store) ListSchedulesByYearMonth(ctx context.Context, year, month int) ([]Schedule, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listSchedulesByYearMonthSQL, year, month)
	if queryErr != nil {
		return nil, fmt.Errorf("list schedules by month: %w", queryErr)
	}
	defer rows.Close()

	schedules := make([]Schedule, 0)
	for rows.Next() {
		var sched Schedule
		if scanErr := rows.Scan(&sched.ID, &sched.Carrier, &sched.ExportPortID, &sched.ImportPortID, &sched.ETD, &sched.ETA); scanErr != nil {
			return nil, scanErr
		}
		schedules = append(schedules, sched)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return schedules, nil
}

// FindPrediction fetches the index for one calendar month.
func (s *Store) FindPrediction(ctx context.Context, year, month int) (PredictionPoint, error) {
	pool, err := s.getPool()
	if err != nil {
		return PredictionPoint{}, err
	}

	var point PredictionPoint
	row := pool.QueryRow(ctx, findPredictionSQL, year, month)
	if scanErr := row.Scan(&point.Year, &point.Month, &point.FreightCostIndex); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return PredictionPoint{}, apperr.ErrPredictionNotFound
		}
		return PredictionPoint{}, fmt.Errorf("find prediction: %w", scanErr)
	}
	return point, nil
}

// ListPredictionsWithinPeriod lists index points between two calendar
// months, inclusive of both endpoints.
func (s *Store) ListPredictionsWithinPeriod(ctx context.Context, startYear, startMonth, endYear, endMonth int) ([]PredictionPoint, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listPredictionsWithinPeriodSQL, startYear, startMonth, endYear, endMonth)
	if queryErr != nil {
		return nil, fmt.Errorf("list predictions within period: %w", queryErr)
	}
	defer rows.Close()

	points := make([]PredictionPoint, 0)
	for rows.Next() {
		var point PredictionPoint
		if scanErr := rows.Scan(&point.Year, &point.Month, &point.FreightCostIndex); scanErr != nil {
			return nil, scanErr
		}
		points = append(points, point)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return points, nil
}

// InsertQuotation appends one quotation row. Rows are never updated in
// place; status transitions insert a new row under the same lineage key.
func (s *Store) InsertQuotation(ctx context.Context, q Quotation) (Quotation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Quotation{}, err
	}

	breakdown, marshalErr := json.Marshal(q.Cost.Breakdown)
	if marshalErr != nil {
		return Quotation{}, fmt.Errorf("marshal breakdown: %w", marshalErr)
	}

	var forwarder interface{}
	if q.ForwarderID != nil {
		forwarder = *q.ForwarderID
	}

	row := pool.QueryRow(ctx, insertQuotationSQL,
		q.ID,
		q.LineageKey,
		q.ConsignorID,
		forwarder,
		string(q.Status),
		q.ScheduleID,
		q.Cost.CargoIDs,
		q.Cost.TotalCost.String(),
		breakdown,
	)
	if scanErr := row.Scan(&q.CreatedAt); scanErr != nil {
		return Quotation{}, fmt.Errorf("insert quotation: %w", scanErr)
	}
	return q, nil
}

// ListQuotationsByLineageAndStatus lists a lineage's rows in one status,
// most recent first.
func (s *Store) ListQuotationsByLineageAndStatus(ctx context.Context, lineageKey string, status QuotationStatus) ([]Quotation, error) {
	return s.listQuotations(ctx, listQuotationsByLineageAndStatusSQL, lineageKey, string(status))
}

// ListQuotationsByConsignorAndStatus lists a shipper's rows in one status.
func (s *Store) ListQuotationsByConsignorAndStatus(ctx context.Context, consignorID string, status QuotationStatus) ([]Quotation, error) {
	return s.listQuotations(ctx, listQuotationsByConsignorAndStatusSQL, consignorID, string(status))
}

// ListRecentQuotations lists the most recent rows across all lineages.
func (s *Store) ListRecentQuotations(ctx context.Context, limit int) ([]Quotation, error) {
	return s.listQuotations(ctx, listRecentQuotationsSQL, limit)
}

// ListDetailedLineageKeys lists every lineage key that currently has a
// forwarder-submitted DETAIL_INFO row.
func (s *Store) ListDetailedLineageKeys(ctx context.Context) ([]string, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listDetailedLineageKeysSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list detailed lineage keys: %w", queryErr)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if scanErr := rows.Scan(&key); scanErr != nil {
			return nil, scanErr
		}
		keys = append(keys, key)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return keys, nil
}

func (s *Store) listQuotations(ctx context.Context, sql string, args ...interface{}) ([]Quotation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, sql, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list quotations: %w", queryErr)
	}
	defer rows.Close()

	quotations := make([]Quotation, 0)
	for rows.Next() {
		quotation, scanErr := scanQuotation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		quotations = append(quotations, quotation)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return quotations, nil
}

func scanQuotation(rows pgx.Rows) (Quotation, error) {
	var (
		q         Quotation
		forwarder *string
		status    string
		cargoIDs  []string
		totalStr  string
		breakdown json.RawMessage
	)

	if err := rows.Scan(
		&q.ID,
		&q.LineageKey,
		&q.ConsignorID,
		&forwarder,
		&status,
		&q.ScheduleID,
		&cargoIDs,
		&totalStr,
		&breakdown,
		&q.CreatedAt,
	); err != nil {
		return Quotation{}, err
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return Quotation{}, fmt.Errorf("parse total cost: %w", err)
	}

	var charges ChargeBreakdown
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &charges); err != nil {
			return Quotation{}, fmt.Errorf("parse breakdown: %w", err)
		}
	}

	q.ForwarderID = forwarder
	q.Status = QuotationStatus(status)
	q.Cost = Cost{CargoIDs: cargoIDs, TotalCost: total, Breakdown: charges}
	return q, nil
}
