package identity

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Identity{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newIdentity(accountName string, role rbac.Role) *models.Identity {
	return &models.Identity{
		AccountName: accountName,
		Email:       accountName + "@example.local",
		Role:        role,
		Permissions: rbac.MatrixFor(role),
		Active:      true,
		Groups:      []string{"CN=Staff,OU=Groups,DC=example,DC=local"},
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Create(db, newIdentity("alice", rbac.RoleLibrarian)))

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		accountName   string
		expectedError error
	}{
		{name: "nil database", dbParam: nil, accountName: "alice", expectedError: ErrDBNil},
		{name: "empty account name", dbParam: db, accountName: "", expectedError: ErrAccountNameEmpty},
		{name: "not found", dbParam: db, accountName: "bob", expectedError: ErrIdentityNotFound},
		{name: "found", dbParam: db, accountName: "alice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := Get(tc.dbParam, tc.accountName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, identity)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", identity.AccountName)
			assert.Equal(t, rbac.RoleLibrarian, identity.Role)
			assert.Equal(t, rbac.MatrixFor(rbac.RoleLibrarian), identity.Permissions)
			assert.Equal(t, []string{"CN=Staff,OU=Groups,DC=example,DC=local"}, identity.Groups)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, newIdentity("alice", rbac.RoleEndUser)))
	require.ErrorIs(t, Create(db, newIdentity("alice", rbac.RoleAdmin)), ErrIdentityAlreadyExists)
	require.ErrorIs(t, Create(db, newIdentity("", rbac.RoleAdmin)), ErrAccountNameEmpty)
	require.ErrorIs(t, Create(nil, newIdentity("carol", rbac.RoleAdmin)), ErrDBNil)

	stored, err := Get(db, "alice")
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
	assert.False(t, stored.ManualOverride)
	assert.True(t, stored.Active)
}

func TestInactiveIdentityIsStoredInactive(t *testing.T) {
	db := setupTestDB(t)

	disabled := newIdentity("dave", rbac.RoleEndUser)
	disabled.Active = false
	require.NoError(t, Create(db, disabled))

	stored, err := Get(db, "dave")
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestGetByIDAndList(t *testing.T) {
	db := setupTestDB(t)

	bob := newIdentity("bob", rbac.RoleEndUser)
	require.NoError(t, Create(db, bob))
	require.NoError(t, Create(db, newIdentity("alice", rbac.RoleEndUser)))

	got, err := GetByID(db, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.AccountName)

	_, err = GetByID(db, 9999)
	require.ErrorIs(t, err, ErrIdentityNotFound)

	all, err := List(db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].AccountName)
	assert.Equal(t, "bob", all[1].AccountName)
}

func TestSave(t *testing.T) {
	db := setupTestDB(t)

	alice := newIdentity("alice", rbac.RoleEndUser)
	require.NoError(t, Create(db, alice))

	alice.Department = "Reference"
	require.NoError(t, Save(db, alice))

	stored, err := Get(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Reference", stored.Department)

	require.ErrorIs(t, Save(db, &models.Identity{AccountName: "ghost"}), ErrIdentityNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	db := setupTestDB(t)

	alice := newIdentity("alice", rbac.RoleEndUser)
	require.NoError(t, Create(db, alice))

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, TouchLastLogin(db, alice.ID, at))

	stored, err := Get(db, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(*stored.LastLoginAt))

	require.ErrorIs(t, TouchLastLogin(db, 9999, at), ErrIdentityNotFound)
}

func TestOverride(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Create(db, newIdentity("alice", rbac.RoleEndUser)))

	_, err := SetOverride(db, "alice", rbac.Role("superuser"))
	require.ErrorIs(t, err, rbac.ErrUnknownRole)

	_, err = SetOverride(db, "ghost", rbac.RoleCirculation)
	require.ErrorIs(t, err, ErrIdentityNotFound)

	updated, err := SetOverride(db, "alice", rbac.RoleCirculation)
	require.NoError(t, err)
	assert.True(t, updated.ManualOverride)

	stored, err := Get(db, "alice")
	require.NoError(t, err)
	assert.True(t, stored.ManualOverride)
	assert.Equal(t, rbac.RoleCirculation, stored.Role)
	assert.Equal(t, rbac.MatrixFor(rbac.RoleCirculation), stored.Permissions)

	cleared, err := ClearOverride(db, "alice")
	require.NoError(t, err)
	assert.False(t, cleared.ManualOverride)

	stored, err = Get(db, "alice")
	require.NoError(t, err)
	assert.False(t, stored.ManualOverride)
	assert.Equal(t, rbac.RoleCirculation, stored.Role, "role stays until the next sync")
}
