package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

func statsRows(c *scoring.Catalog) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"variable", "label", "question", "mean", "p25", "p50", "p75"})
	for _, v := range scoring.Variables {
		s := c.Stats[v]
		rows.AddRow(string(v), c.Labels[v], c.Questions[v], s.Mean, s.P25, s.P50, s.P75)
	}
	return rows
}

func adviceRows(c *scoring.Catalog) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"variable", "tier", "advice"})
	for _, v := range scoring.Variables {
		for _, tier := range scoring.Tiers {
			rows.AddRow(string(v), string(tier), c.Advice[v][tier])
		}
	}
	return rows
}

func TestStore_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := scoring.DefaultCatalog()
	stats := statsRows(want).AddRow("employees", "Empleados", "¿Cuántos?", 10.0, 1.0, 2.0, 3.0)
	mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnRows(stats)
	mock.ExpectQuery(regexp.QuoteMeta(adviceQuery)).WillReturnRows(adviceRows(want))

	got, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Load_Incomplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := scoring.DefaultCatalog()
	advice := sqlmock.NewRows([]string{"variable", "tier", "advice"}).
		AddRow("total_equity", "bajo", want.Advice[scoring.TotalEquity][scoring.TierLow])
	mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnRows(statsRows(want))
	mock.ExpectQuery(regexp.QuoteMeta(adviceQuery)).WillReturnRows(advice)

	_, err = NewStore(db).Load(context.Background())
	assert.ErrorIs(t, err, scoring.ErrInvalidCatalog)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Load_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "stats query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnError(errors.New("relation does not exist"))
			},
		},
		{
			name: "advice query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnRows(statsRows(scoring.DefaultCatalog()))
				mock.ExpectQuery(regexp.QuoteMeta(adviceQuery)).WillReturnError(errors.New("connection reset"))
			},
		},
		{
			name: "bad stats row",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"variable", "label", "question", "mean", "p25", "p50", "p75"}).
					AddRow("total_equity", "Patrimonio", "?", "not-a-number", 1.0, 2.0, 3.0)
				mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnRows(rows)
			},
		},
		{
			name: "unknown tier",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(statsQuery)).WillReturnRows(statsRows(scoring.DefaultCatalog()))
				rows := sqlmock.NewRows([]string{"variable", "tier", "advice"}).
					AddRow("total_equity", "critico", "...")
				mock.ExpectQuery(regexp.QuoteMeta(adviceQuery)).WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			_, err = NewStore(db).Load(context.Background())
			assert.Error(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
