package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS holded_investments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT NOT NULL,
	name TEXT NOT NULL,
	amount REAL NOT NULL DEFAULT 0,
	return_percentage REAL NOT NULL DEFAULT 0,
	is_economic_activity BOOLEAN NOT NULL DEFAULT FALSE,
	category TEXT NOT NULL,
	sub_category TEXT NOT NULL,
	detail_category TEXT NOT NULL,
	investment_type TEXT NOT NULL,
	account_code TEXT,
	description TEXT,
	source_endpoint TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Store persists the investment set. The whole table is replaced wholesale
// on every sync run; no incremental updates or history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and ensures the
// schema exists.
func Open(databasePath string) (*Store, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", databasePath, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Debug("Database ready at %s", databasePath)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceAll deletes the entire prior batch and inserts the new one inside
// a single transaction, so readers never observe an empty or half-written
// store.
func (s *Store) ReplaceAll(investments []models.Investment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM holded_investments"); err != nil {
		return fmt.Errorf("failed to clear investments: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO holded_investments (
			external_id, name, amount, return_percentage, is_economic_activity,
			category, sub_category, detail_category, investment_type,
			account_code, description, source_endpoint
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, inv := range investments {
		_, err := stmt.Exec(
			inv.ExternalID, inv.Name, inv.Amount, inv.ReturnPercentage,
			inv.IsEconomicActivity, inv.Category, inv.SubCategory,
			inv.DetailCategory, string(inv.InvestmentType),
			inv.AccountCode, inv.Description, inv.SourceEndpoint,
		)
		if err != nil {
			return fmt.Errorf("failed to insert investment %s: %w", inv.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	logger.Info("Replaced investment set with %d records", len(investments))
	return nil
}

// List returns all investments ordered by amount descending, the order the
// dashboard renders them in.
func (s *Store) List() ([]models.Investment, error) {
	rows, err := s.db.Query(`
		SELECT external_id, name, amount, return_percentage, is_economic_activity,
		       category, sub_category, detail_category, investment_type,
		       account_code, description, source_endpoint
		FROM holded_investments
		ORDER BY amount DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		var investmentType string
		var accountCode, description, sourceEndpoint sql.NullString

		err := rows.Scan(
			&inv.ExternalID, &inv.Name, &inv.Amount, &inv.ReturnPercentage,
			&inv.IsEconomicActivity, &inv.Category, &inv.SubCategory,
			&inv.DetailCategory, &investmentType,
			&accountCode, &description, &sourceEndpoint,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment row: %w", err)
		}

		inv.InvestmentType = models.InvestmentType(investmentType)
		inv.AccountCode = accountCode.String
		inv.Description = description.String
		inv.SourceEndpoint = sourceEndpoint.String
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment rows: %w", err)
	}

	return investments, nil
}

// ListByCategory returns the investments of one sub category, amount
// descending.
func (s *Store) ListByCategory(category string) ([]models.Investment, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var matched []models.Investment
	for _, inv := range all {
		if inv.SubCategory == category {
			matched = append(matched, inv)
		}
	}
	return matched, nil
}
