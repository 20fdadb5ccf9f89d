package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
)

// Store is a database/sql backed storage.Store.
type Store struct {
	db *sqlx.DB
	d  Dialect
}

var _ storage.Store = (*Store)(nil)

// Open connects with the dialect's driver and pings the database.
func Open(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Kind)
	}
	db, err := sqlx.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Kind, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Kind, err)
	}
	return New(db, d), nil
}

// New wraps an open connection pool.
func New(db *sqlx.DB, d Dialect) *Store { return &Store{db: db, d: d} }

// DB exposes the pool for backend-specific setup.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates missing tables in dependency order.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, et := range schema.CreationOrder() {
		stmt, err := s.d.CreateTableSQL(et)
		if err != nil {
			return fmt.Errorf("%s: ddl for %s: %w", s.d.Kind, et.Label, err)
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: create %s: %w", s.d.Kind, et.Label, err)
		}
	}
	log.Printf("%s: schema ensured tables=%d", s.d.Kind, len(schema.All()))
	return nil
}

func (s *Store) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", s.d.Kind, err)
	}
	return &unit{tx: tx, d: s.d}, nil
}

type unit struct {
	tx *sqlx.Tx
	d  Dialect
	sp int
}

func (u *unit) Commit() error   { return u.tx.Commit() }
func (u *unit) Rollback() error { return u.tx.Rollback() }

// Create inserts e inside its own savepoint so a rejected row leaves the
// transaction usable.
func (u *unit) Create(ctx context.Context, e schema.Entity) error {
	et := e.EntityType()
	vals := schema.Values(e)

	var (
		cols []string
		args []any
		auto *schema.Column
	)
	for i, c := range et.Columns {
		v := vals[c.Name]
		if v == nil {
			if c.AutoIncrement {
				auto = &et.Columns[i]
			}
			continue
		}
		cols = append(cols, c.Name)
		args = append(args, u.d.bind(c, v))
	}
	if len(cols) == 0 {
		return fmt.Errorf("no values for %s", et.Label)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		u.d.Quote(et.Label), strings.Join(u.d.quoteAll(cols), ", "), marks)
	if auto != nil && u.d.Returning {
		query += " RETURNING " + u.d.Quote(auto.Name)
	}
	query = u.tx.Rebind(query)

	return u.withSavepoint(ctx, func() error {
		switch {
		case auto != nil && u.d.Returning:
			var id int64
			if err := u.tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
				return err
			}
			return schema.SetGenerated(e, id)
		default:
			res, err := u.tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			if auto != nil && u.d.LastInsertID {
				if id, err := res.LastInsertId(); err == nil {
					return schema.SetGenerated(e, id)
				}
			}
			return nil
		}
	})
}

func (u *unit) withSavepoint(ctx context.Context, fn func() error) error {
	u.sp++
	name := fmt.Sprintf("sp_%d", u.sp)
	if _, err := u.tx.ExecContext(ctx, u.d.savepoint(u.d.Savepoint, name)); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(); err != nil {
		if _, rbErr := u.tx.ExecContext(ctx, u.d.savepoint(u.d.RollbackToSavepoint, name)); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback to savepoint: %w", rbErr))
		}
		return err
	}
	if rel := u.d.savepoint(u.d.ReleaseSavepoint, name); rel != "" {
		if _, err := u.tx.ExecContext(ctx, rel); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
	}
	return nil
}

func (u *unit) selectSQL(et *schema.EntityType) string {
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(u.d.quoteAll(et.ColumnNames()), ", "), u.d.Quote(et.Label))
}

func (u *unit) where(et *schema.EntityType, key schema.Key) (string, []any, error) {
	pk := et.PrimaryKey()
	if len(key) != len(pk) {
		return "", nil, fmt.Errorf("%s: key has %d parts, want %d", et.Label, len(key), len(pk))
	}
	conds := make([]string, len(pk))
	args := make([]any, len(pk))
	for i, c := range pk {
		conds[i] = u.d.Quote(c.Name) + " = ?"
		args[i] = u.d.bind(c, key[i])
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (u *unit) FetchAll(ctx context.Context, et *schema.EntityType) ([]schema.Entity, error) {
	query := u.selectSQL(et) + " ORDER BY " + strings.Join(u.d.quoteAll(pkNames(et)), ", ")
	return u.query(ctx, et, query)
}

func (u *unit) FetchByID(ctx context.Context, et *schema.EntityType, key schema.Key) (schema.Entity, error) {
	where, args, err := u.where(et, key)
	if err != nil {
		return nil, err
	}
	out, err := u.query(ctx, et, u.selectSQL(et)+where, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, storage.NotFound(et.Label, key)
	}
	return out[0], nil
}

func (u *unit) query(ctx context.Context, et *schema.EntityType, query string, args ...any) ([]schema.Entity, error) {
	rows, err := u.tx.QueryxContext(ctx, u.tx.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: select %s: %w", u.d.Kind, et.Label, err)
	}
	defer rows.Close()

	var out []schema.Entity
	for rows.Next() {
		m := make(map[string]any, len(et.Columns))
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("%s: scan %s: %w", u.d.Kind, et.Label, err)
		}
		e, err := schema.FromColumns(et, m)
		if err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", u.d.Kind, et.Label, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update applies canonical field values to the entity with key and returns
// the updated entity.
func (u *unit) Update(ctx context.Context, et *schema.EntityType, key schema.Key, fields map[string]any) (schema.Entity, error) {
	e, err := u.FetchByID(ctx, et, key)
	if err != nil {
		return nil, err
	}
	if err := schema.Apply(e, fields); err != nil {
		return nil, storage.Reject(et.Label, err)
	}
	if len(fields) == 0 {
		return e, nil
	}

	vals := schema.Values(e)
	params := make(map[string]any, len(fields)+len(key))
	var sets []string
	for i, c := range et.Columns {
		if _, ok := fields[c.Field]; !ok {
			continue
		}
		p := fmt.Sprintf("v%d", i)
		sets = append(sets, fmt.Sprintf("%s = :%s", u.d.Quote(c.Name), p))
		params[p] = u.d.bind(c, vals[c.Name])
	}
	var conds []string
	for i, c := range et.PrimaryKey() {
		p := fmt.Sprintf("k%d", i)
		conds = append(conds, fmt.Sprintf("%s = :%s", u.d.Quote(c.Name), p))
		params[p] = u.d.bind(c, key[i])
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		u.d.Quote(et.Label), strings.Join(sets, ", "), strings.Join(conds, " AND "))

	err = u.withSavepoint(ctx, func() error {
		_, err := u.tx.NamedExecContext(ctx, query, params)
		return err
	})
	if err != nil {
		return nil, storage.Reject(et.Label, err)
	}
	return e, nil
}

func (u *unit) Delete(ctx context.Context, et *schema.EntityType, key schema.Key) error {
	where, args, err := u.where(et, key)
	if err != nil {
		return err
	}
	var res sql.Result
	err = u.withSavepoint(ctx, func() error {
		res, err = u.tx.ExecContext(ctx, u.tx.Rebind("DELETE FROM "+u.d.Quote(et.Label)+where), args...)
		return err
	})
	if err != nil {
		return storage.Reject(et.Label, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.NotFound(et.Label, key)
	}
	return nil
}

func pkNames(et *schema.EntityType) []string {
	var out []string
	for _, c := range et.PrimaryKey() {
		out = append(out, c.Name)
	}
	return out
}
