package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_Placeholders(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{name: "postgres", dialect: DialectPostgres, want: "SELECT id FROM orders WHERE customer_id = $1"},
		{name: "sqlite", dialect: DialectSQLite, want: "SELECT id FROM orders WHERE customer_id = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := For(tt.dialect).Select("id").
				From("orders").
				Where(squirrel.Eq{"customer_id": "c-1"}).
				ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []interface{}{"c-1"}, args)
		})
	}
}
