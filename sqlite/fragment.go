package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ offerdoc.FragmentStore = (*FragmentService)(nil)

// FragmentService implements offerdoc.FragmentStore using SQLite. Each
// offer is one row holding the fragment as JSON; its price history is
// also kept in its own table so it can be queried without decoding.
type FragmentService struct {
	db *DB
}

// NewFragmentService creates a new FragmentService.
func NewFragmentService(db *DB) *FragmentService {
	return &FragmentService{db: db}
}

// FindFragmentByURL retrieves the stored fragment of the offer at url.
func (s *FragmentService) FindFragmentByURL(ctx context.Context, url string) (*offerdoc.Fragment, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM fragments WHERE url = ?`, url).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, offerdoc.Errorf(offerdoc.ENOTFOUND, "fragment not found: %s", url)
	}
	if err != nil {
		return nil, err
	}

	var f offerdoc.Fragment
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return nil, fmt.Errorf("failed to decode fragment %s: %w", url, err)
	}
	return &f, nil
}

// SaveFragment creates or replaces the stored fragment of f.URL and its
// price history. A fragment whose content did not change is not rewritten.
func (s *FragmentService) SaveFragment(ctx context.Context, f *offerdoc.Fragment) error {
	if f == nil || f.URL == "" {
		return offerdoc.Errorf(offerdoc.EINVALID, "fragment url required")
	}
	content, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode fragment %s: %w", f.URL, err)
	}
	hash := hashContent(content)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id, storedHash string
	err = tx.QueryRowContext(ctx, `SELECT id, content_hash FROM fragments WHERE url = ?`, f.URL).Scan(&id, &storedHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
	case err != nil:
		return err
	case storedHash == hash:
		return nil
	}

	now := time.Now().UTC().Format(timeFormat)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fragments (id, url, datasource, content, content_hash, created_at, indexed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			datasource = excluded.datasource,
			content = excluded.content,
			content_hash = excluded.content_hash,
			indexed_at = excluded.indexed_at,
			updated_at = excluded.updated_at
	`, id, f.URL, f.DatasourceName, string(content), hash,
		f.CreatedAt.UTC().Format(timeFormat), f.IndexedAt.UTC().Format(timeFormat), now); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_history WHERE fragment_id = ?`, id); err != nil {
		return err
	}
	for i, p := range f.PriceHistory {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_history (fragment_id, position, value, currency, observed_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, i, p.Value, p.Currency, p.Timestamp.UTC().Format(timeFormat)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindPriceHistory returns the archived prices of the offer at url, oldest
// first.
func (s *FragmentService) FindPriceHistory(ctx context.Context, url string) ([]offerdoc.Price, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM fragments WHERE url = ?`, url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, offerdoc.Errorf(offerdoc.ENOTFOUND, "fragment not found: %s", url)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value, currency, observed_at
		FROM price_history
		WHERE fragment_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []offerdoc.Price
	for rows.Next() {
		var p offerdoc.Price
		var observedAt string
		if err := rows.Scan(&p.Value, &p.Currency, &observedAt); err != nil {
			return nil, err
		}
		if p.Timestamp, err = parseTime(observedAt, "observed_at"); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// CountFragments returns the number of stored fragments of a datasource.
func (s *FragmentService) CountFragments(ctx context.Context, datasource string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragments WHERE datasource = ?`, datasource).Scan(&n)
	return n, err
}
