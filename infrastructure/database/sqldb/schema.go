package sqldb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// TableExists consulta o information_schema do schema corrente
func TableExists(ctx context.Context, q Queryer, d Dialect, table string) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("information_schema.tables").
		Where(squirrel.Expr("table_schema = " + d.CurrentSchemaExpr())).
		Where(squirrel.Eq{"table_name": table}).
		PlaceholderFormat(d.Placeholder()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, Classify("table-exists", err)
	}

	return count > 0, nil
}

// ColumnTypes retorna coluna -> data_type (minúsculo) de uma tabela existente
func ColumnTypes(ctx context.Context, q Queryer, d Dialect, table string) (map[string]string, error) {
	query, args, err := squirrel.
		Select("column_name", "data_type").
		From("information_schema.columns").
		Where(squirrel.Expr("table_schema = " + d.CurrentSchemaExpr())).
		Where(squirrel.Eq{"table_name": table}).
		PlaceholderFormat(d.Placeholder()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Classify("column-types", err)
	}
	defer rows.Close()

	types := make(map[string]string)
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, fmt.Errorf("erro ao escanear coluna: %w", err)
		}
		types[strings.ToLower(name)] = strings.ToLower(dataType)
	}

	if err := rows.Err(); err != nil {
		return nil, Classify("column-types", err)
	}

	return types, nil
}
