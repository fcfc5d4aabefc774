package psqlbuilder

import "github.com/Masterminds/squirrel"

// Dialect SQL-диалект, определяющий формат плейсхолдеров
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// For возвращает билдер с плейсхолдерами нужного диалекта
// Postgres использует $1, $2...; SQLite - ?
func For(d Dialect) squirrel.StatementBuilderType {
	if d == DialectSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return builder
}

// Select начинает SELECT запрос для postgres
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert начинает INSERT запрос для postgres
func Insert(table string) squirrel.InsertBuilder {
	return builder.Insert(table)
}

// Update начинает UPDATE запрос для postgres
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete начинает DELETE запрос для postgres
func Delete(table string) squirrel.DeleteBuilder {
	return builder.Delete(table)
}
