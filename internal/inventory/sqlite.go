/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // driver
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT    NOT NULL,
	description TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	price       REAL    NOT NULL,
	discount    REAL,
	quantity    INTEGER NOT NULL CHECK (quantity >= 0)
)`

const itemColumns = "id, title, description, category, price, discount, quantity"

// SQLiteStore keeps items in a SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and ensures the schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	// One connection serialises writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := s.db.SelectContext(ctx, &items, "SELECT "+itemColumns+" FROM items ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Item, error) {
	return getItem(ctx, s.db, id)
}

func (s *SQLiteStore) Create(ctx context.Context, it Item) (Item, error) {
	res, err := s.db.NamedExecContext(ctx,
		"INSERT INTO items (title, description, category, price, discount, quantity) "+
			"VALUES (:title, :description, :category, :price, :discount, :quantity)",
		&it,
	)
	if err != nil {
		return Item{}, fmt.Errorf("inserting item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("reading new item id: %w", err)
	}
	it.ID = id
	return it, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, it Item) (Item, error) {
	it.ID = id
	res, err := s.db.NamedExecContext(ctx,
		"UPDATE items SET title = :title, description = :description, category = :category, "+
			"price = :price, discount = :discount, quantity = :quantity WHERE id = :id",
		&it,
	)
	if err != nil {
		return Item{}, fmt.Errorf("updating item %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Item{}, err
	}
	if n == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Adjust(ctx context.Context, deltas []Delta) ([]Item, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lookupErr error
	next, err := planAdjust(deltas, func(id int64) (Item, bool) {
		it, err := getItem(ctx, tx, id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				lookupErr = err
			}
			return Item{}, false
		}
		return it, true
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	if err != nil {
		return nil, err
	}

	for id, qty := range next {
		if _, err := tx.ExecContext(ctx, "UPDATE items SET quantity = ? WHERE id = ?", qty, id); err != nil {
			return nil, fmt.Errorf("updating quantity of item %d: %w", id, err)
		}
	}

	out := make([]Item, len(deltas))
	for i, d := range deltas {
		it, err := getItem(ctx, tx, d.ID)
		if err != nil {
			return nil, err
		}
		out[i] = it
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing quantities: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func getItem(ctx context.Context, q sqlx.QueryerContext, id int64) (Item, error) {
	var it Item
	err := sqlx.GetContext(ctx, q, &it, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("reading item %d: %w", id, err)
	}
	return it, nil
}
