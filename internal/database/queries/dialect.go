package queries

import (
	"github.com/doug-martin/goqu/v9"
	// registers the postgres dialect
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const dialectPostgres = "postgres"

// selectFrom starts a dynamic list query. Prepared mode keeps every filter
// value out of the SQL text and in the pgx argument list.
func selectFrom(table string, columns string) *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(table).
		Select(goqu.L(columns)).
		Prepared(true)
}

// page applies limit and offset; a zero limit leaves the query unbounded.
func page(ds *goqu.SelectDataset, limit, offset int32) *goqu.SelectDataset {
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	return ds
}
