package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	queryTimeout    = 3 * time.Second
	// createAttempts bounds the retries of an insert that lost the race for
	// the next id.
	createAttempts  = 3
	uniqueViolation = "23505"
)

// RecordsSchema creates the single table every collection lives in.
const RecordsSchema = `CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id INTEGER NOT NULL,
	body JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

// PostgresRecordRepository stores records as JSONB rows keyed by collection
// and id. The id column is authoritative; the body never stores it.
type PostgresRecordRepository struct {
	db *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

// EnsureSchema creates the records table when missing.
func (r *PostgresRecordRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, RecordsSchema); err != nil {
		return fmt.Errorf("creating records table: %w", err)
	}
	return nil
}

func (r *PostgresRecordRepository) List(ctx context.Context, collection string, filter map[string]string) ([]Record, error) {
	if !knownCollection(collection) {
		return nil, ErrUnknownCollection
	}

	query, args := listQuery(collection, filter)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			id   int
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		rec, err := decodeBody(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// listQuery builds the filtered select. Keys are bound as parameters.
func listQuery(collection string, filter map[string]string) (string, []any) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`SELECT id, body FROM records WHERE collection = $1`)
	args := []any{collection}
	for _, k := range keys {
		if k == "id" {
			args = append(args, filter[k])
			fmt.Fprintf(&b, ` AND id::text = $%d`, len(args))
			continue
		}
		args = append(args, k, filter[k])
		fmt.Fprintf(&b, ` AND body ->> $%d = $%d`, len(args)-1, len(args))
	}
	b.WriteString(` ORDER BY id`)
	return b.String(), args
}

func (r *PostgresRecordRepository) GetByID(ctx context.Context, collection string, id int) (Record, error) {
	if !knownCollection(collection) {
		return nil, ErrUnknownCollection
	}

	query := `SELECT body FROM records WHERE collection = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var body []byte
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBody(id, body)
}

func (r *PostgresRecordRepository) Create(ctx context.Context, collection string, rec Record) (Record, error) {
	if !knownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	body, err := encodeBody(rec)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO records (collection, id, body)
		SELECT $1, COALESCE(MAX(id), 0) + 1, $2::jsonb FROM records WHERE collection = $1
		RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	for i := 0; i < createAttempts; i++ {
		var id int
		err := r.db.QueryRowContext(ctx, query, collection, body).Scan(&id)
		if err == nil {
			return withID(rec, id), nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, ErrIDConflict
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRecordRepository) Replace(ctx context.Context, collection string, id int, rec Record) (Record, error) {
	return r.update(ctx, `UPDATE records SET body = $3::jsonb WHERE collection = $1 AND id = $2 RETURNING body`, collection, id, rec)
}

func (r *PostgresRecordRepository) Merge(ctx context.Context, collection string, id int, fields Record) (Record, error) {
	return r.update(ctx, `UPDATE records SET body = body || $3::jsonb WHERE collection = $1 AND id = $2 RETURNING body`, collection, id, fields)
}

func (r *PostgresRecordRepository) update(ctx context.Context, query, collection string, id int, rec Record) (Record, error) {
	if !knownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	body, err := encodeBody(rec)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var stored []byte
	err = r.db.QueryRowContext(ctx, query, collection, id, body).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBody(id, stored)
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, collection string, id int) error {
	if !knownCollection(collection) {
		return ErrUnknownCollection
	}

	query := `DELETE FROM records WHERE collection = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRecordRepository) Import(ctx context.Context, collection string, recs []Record) error {
	if !knownCollection(collection) {
		return ErrUnknownCollection
	}

	ctx, cancel := context.WithTimeout(ctx, 10*queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, collection); err != nil {
		return err
	}
	for _, rec := range recs {
		id, ok := recordID(rec)
		if !ok {
			return ErrInvalidRecordValue
		}
		body, err := encodeBody(rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO records (collection, id, body) VALUES ($1, $2, $3::jsonb)`, collection, id, body); err != nil {
			return fmt.Errorf("importing %s/%d: %w", collection, id, err)
		}
	}
	return tx.Commit()
}

func encodeBody(rec Record) (string, error) {
	body := make(Record, len(rec))
	for k, v := range rec {
		if k != "id" {
			body[k] = v
		}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecordValue, err)
	}
	return string(b), nil
}

func decodeBody(id int, body []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = id
	return rec, nil
}
