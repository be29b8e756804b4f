package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

// A single statement keeps the upsert atomic; last writer wins.
const upsertQuery = `INSERT INTO documents (collection, id, body)
	VALUES ($1, $2, $3::jsonb)
	ON CONFLICT (collection, id) DO UPDATE
	SET body = CASE WHEN $4::boolean THEN documents.body || EXCLUDED.body ELSE EXCLUDED.body END,
	    updated_at = now()`

// Postgres stores every collection in one JSONB table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validKey(collection, id); err != nil {
		return nil, err
	}

	var body []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	return decodeBody(body)
}

func (p *Postgres) Set(ctx context.Context, collection, id string, doc Document, merge bool) error {
	if err := validKey(collection, id); err != nil {
		return err
	}

	body, err := json.Marshal(clone(doc))
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	if _, err := p.db.ExecContext(ctx, upsertQuery, collection, id, string(body), merge); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	return nil
}

func (p *Postgres) Query(ctx context.Context, collection string, match Predicate) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = $1 ORDER BY created_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}

		doc, err := decodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, err)
		}

		if match != nil && !match(id, doc) {
			continue
		}
		records = append(records, Record{ID: id, Doc: doc})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return records, nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	if err := validKey(collection, id); err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func decodeBody(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document body: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}
