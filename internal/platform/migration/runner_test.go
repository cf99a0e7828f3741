// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/platform/migration"
)

/*
TestToPgx5DSN rewrites only the postgres schemes.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/libris?sslmode=disable", "pgx5://u:p@db:5432/libris?sslmode=disable"},
		{"postgresql://db/libris", "pgx5://db/libris"},
		{"pgx5://db/libris", "pgx5://db/libris"},
		{"host=db dbname=libris", "host=db dbname=libris"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in), tt.in)
	}
}
