package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Load resolves the configured catalog source. db is only used by the
// postgres source and may be nil otherwise.
func Load(ctx context.Context, cfg config.CatalogConfig, db *sql.DB) (*scoring.Catalog, error) {
	switch cfg.Source {
	case "", SourceBuiltin:
		c := scoring.DefaultCatalog()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	case SourceFile:
		return LoadFile(cfg.Path)
	case SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres catalog requires a database connection")
		}
		return NewStore(db).Load(ctx)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
