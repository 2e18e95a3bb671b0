// Package postgres loads SCADA observation tables from a Postgres
// database. Each relation row is one time sample; the df_name column
// carries the condition label, every other column is numeric and SQL
// NULLs become null cells.
package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"windratio/domain/core"
	"windratio/domain/scada"
)

// ScadaRepository reads observation tables from Postgres relations.
type ScadaRepository struct {
	db *sqlx.DB
}

// NewScadaRepository creates a repository over an open connection pool.
func NewScadaRepository(db *sqlx.DB) *ScadaRepository {
	return &ScadaRepository{db: db}
}

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// LoadTable reads an entire relation into an observation table.
func (r *ScadaRepository) LoadTable(ctx context.Context, relation string) (*scada.Table, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(relation))
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", relation, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	condIdx := -1
	for i, name := range cols {
		if name == scada.CondCol {
			condIdx = i
		}
	}
	if condIdx < 0 {
		return nil, core.NewDataError(scada.CondCol, fmt.Sprintf("missing from relation %s", relation))
	}

	var conds []string
	vals := make([][]float64, len(cols))
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, cell := range raw {
			if i == condIdx {
				conds = append(conds, asString(cell))
				continue
			}
			v, err := asFloat(cell)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", cols[i], err)
			}
			vals[i] = append(vals[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table := scada.NewTable(conds)
	for i, name := range cols {
		if i == condIdx {
			continue
		}
		if err := table.AddColumn(name, vals[i]); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func asString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asFloat(cell interface{}) (float64, error) {
	switch v := cell.(type) {
	case nil:
		return scada.Null, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported cell type %T", cell)
	}
}
