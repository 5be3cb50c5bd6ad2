package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingName: "directory.last_sync",
			seedData: []models.Setting{
				{Name: "directory.last_sync", Value: []byte(`{"total_users":3}`)},
			},
			expectedValue: []byte(`{"total_users":3}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.expectedValue, setting.Value)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	setting, err := Create(db, "sync.paused", []byte("false"))
	require.NoError(t, err)
	assert.NotZero(t, setting.ID)

	_, err = Create(db, "sync.paused", []byte("true"))
	require.ErrorIs(t, err, ErrSettingAlreadyExists)

	_, err = Create(db, "", []byte("x"))
	require.ErrorIs(t, err, ErrSettingNameEmpty)

	_, err = Create(nil, "x", []byte("x"))
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	created, err := Set(db, "directory.last_sync", []byte("first"))
	require.NoError(t, err)

	updated, err := Set(db, "directory.last_sync", []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := Get(db, "directory.last_sync")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), stored.Value)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestJSON(t *testing.T) {
	db := setupTestDB(t)

	type report struct {
		TotalUsers int      `json:"total_users"`
		Details    []string `json:"details"`
	}

	in := report{TotalUsers: 3, Details: []string{"bob: boom"}}
	require.NoError(t, SetJSON(db, "directory.last_sync", in))

	var out report
	require.NoError(t, GetJSON(db, "directory.last_sync", &out))
	assert.Equal(t, in, out)

	require.ErrorIs(t, GetJSON(db, "missing", &out), ErrSettingNotFound)

	_, err := Set(db, "broken", []byte("{"))
	require.NoError(t, err)
	require.Error(t, GetJSON(db, "broken", &out))
}
