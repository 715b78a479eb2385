package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ListParams drives a dynamic listing query. SortColumn and SearchColumns are
// identifiers chosen by the caller from a whitelist, never raw user input.
type ListParams struct {
	Search        string
	SearchColumns []string
	SortColumn    string
	SortDesc      bool
	Limit         int
	Offset        int
}

type listQuery struct {
	selectSQL string
	countSQL  string
	args      []any
	countArgs []any
}

// buildListQuery assembles SELECT and COUNT statements sharing the same WHERE
// clause. filters are extra AND-ed predicates using $1..$n placeholders
// matching filterArgs.
func buildListQuery(table, columns string, filters []string, filterArgs []any, p ListParams) listQuery {
	where := append([]string(nil), filters...)
	args := append([]any(nil), filterArgs...)

	if p.Search != "" && len(p.SearchColumns) > 0 {
		args = append(args, "%"+escapeLike(p.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))

		ors := make([]string, 0, len(p.SearchColumns))
		for _, col := range p.SearchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE %s", pgx.Identifier{col}.Sanitize(), placeholder))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	var whereSQL string
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	sortColumn := p.SortColumn
	if sortColumn == "" {
		sortColumn = "id"
	}
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}

	orderBy := fmt.Sprintf(" ORDER BY %s %s", pgx.Identifier{sortColumn}.Sanitize(), direction)
	if sortColumn != "id" {
		// id breaks ties so pages never overlap
		orderBy += ", id " + direction
	}

	countArgs := append([]any(nil), args...)

	args = append(args, p.Limit, p.Offset)
	limitSQL := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return listQuery{
		selectSQL: "SELECT " + columns + " FROM " + table + whereSQL + orderBy + limitSQL,
		countSQL:  "SELECT COUNT(*) FROM " + table + whereSQL,
		args:      args,
		countArgs: countArgs,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
