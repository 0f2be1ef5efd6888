package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const (
	statsQuery  = `SELECT variable, label, question, mean, p25, p50, p75 FROM reference_statistics`
	adviceQuery = `SELECT variable, tier, advice FROM variable_advice`
)

// Store reads the catalog from the reference_statistics and variable_advice tables.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load reads both tables and validates the result. Rows for variables the
// model does not use are ignored.
func (s *Store) Load(ctx context.Context) (*scoring.Catalog, error) {
	c := scoring.NewCatalog()

	if err := s.loadStats(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadAdvice(ctx, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) loadStats(ctx context.Context, c *scoring.Catalog) error {
	rows, err := s.db.QueryContext(ctx, statsQuery)
	if err != nil {
		return fmt.Errorf("query reference statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, label, question string
			stats                 scoring.VariableStats
		)
		if err := rows.Scan(&name, &label, &question, &stats.Mean, &stats.P25, &stats.P50, &stats.P75); err != nil {
			return fmt.Errorf("scan reference statistics: %w", err)
		}
		v := scoring.Variable(name)
		if !v.IsKnown() {
			continue
		}
		c.Stats[v] = stats
		c.Labels[v] = label
		c.Questions[v] = question
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate reference statistics: %w", err)
	}
	return nil
}

func (s *Store) loadAdvice(ctx context.Context, c *scoring.Catalog) error {
	rows, err := s.db.QueryContext(ctx, adviceQuery)
	if err != nil {
		return fmt.Errorf("query variable advice: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, tier, text string
		if err := rows.Scan(&name, &tier, &text); err != nil {
			return fmt.Errorf("scan variable advice: %w", err)
		}
		v := scoring.Variable(name)
		if !v.IsKnown() {
			continue
		}
		if !isTier(tier) {
			return fmt.Errorf("%w: %s has unknown advice tier %q", scoring.ErrInvalidCatalog, name, tier)
		}
		c.SetAdvice(v, scoring.Tier(tier), text)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate variable advice: %w", err)
	}
	return nil
}
