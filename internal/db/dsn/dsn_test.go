package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
)

func TestFromDB(t *testing.T) {
	testCases := []struct {
		name     string
		db       config.DB
		expected string
	}{
		{
			name: "mysql is the default engine",
			db: config.DB{
				Host: "db", Port: 3306, User: "library", Password: "secret", Name: "library",
				Extras: "charset=utf8mb4&parseTime=True&loc=Local",
			},
			expected: "library:secret@tcp(db:3306)/library?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: "postgres", Host: "db", Port: 5432, User: "library", Password: "secret", Name: "library",
				Extras: "sslmode=disable",
			},
			expected: "host=db port=5432 user=library password=secret dbname=library sslmode=disable",
		},
		{
			name:     "sqlite file",
			db:       config.DB{GormEngine: "sqlite", Name: "library.db"},
			expected: "library.db",
		},
		{
			name:     "sqlite with pragmas",
			db:       config.DB{GormEngine: "SQLite", Name: "library.db", Extras: "_pragma=foreign_keys(1)"},
			expected: "library.db?_pragma=foreign_keys(1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromDB(tc.db))
		})
	}
}

func TestCreate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: "sqlite", Name: ":memory:"}}
	assert.Equal(t, ":memory:", Create(cfg))
}
