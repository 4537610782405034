package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"hmvfinder/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  manufacturer TEXT,
  description TEXT,
  price REAL,
  attributesJson TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_code ON products(code);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceProducts swaps the stored catalog wholesale inside one transaction.
func (d *DB) ReplaceProducts(products []internal.ProductRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO products (id, code, name, manufacturer, description, price, attributesJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		var attrsJSON *string
		if len(p.Attributes) > 0 {
			blob, _ := json.Marshal(p.Attributes)
			s := string(blob)
			attrsJSON = &s
		}
		if _, err := stmt.Exec(p.ID, p.Code, p.Name, p.Manufacturer, p.Description, p.Price, attrsJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListProducts() ([]internal.ProductRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, code, name, manufacturer, description, price, attributesJson
FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductRecord
	for rows.Next() {
		var p internal.ProductRecord
		var attrsJSON *string
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Manufacturer, &p.Description, &p.Price, &attrsJSON); err != nil {
			return nil, err
		}
		if attrsJSON != nil {
			_ = json.Unmarshal([]byte(*attrsJSON), &p.Attributes)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (d *DB) UpdateProductAttributes(id string, attrs []internal.AttributeEntry) error {
	blob, _ := json.Marshal(attrs)
	_, err := d.conn.Exec(`UPDATE products SET attributesJson = ? WHERE id = ?`, string(blob), id)
	return err
}

func (d *DB) CountProducts() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// DeleteMetadataPrefix wipes every metadata row whose key starts with
// prefix. Used to rebuild the metadata cache on schema-version bumps.
func (d *DB) DeleteMetadataPrefix(prefix string) error {
	_, err := d.conn.Exec(`DELETE FROM metadata WHERE key LIKE ? || '%'`, prefix)
	return err
}
