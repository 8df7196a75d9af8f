package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

func setupMembershipTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:memberships_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS workshops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  tax_rate TEXT,
  address TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS workshop_memberships (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (workshop_id, user_id)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedWorkshop(t *testing.T, db *gorm.DB, name string) *models.Workshop {
	t.Helper()
	workshop := &models.Workshop{
		ID:   uuid.New(),
		Name: name,
		Slug: name + "-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(workshop).Error)
	return workshop
}

func TestListUserWorkshops(t *testing.T) {
	t.Parallel()

	db := setupMembershipTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	alpha := seedWorkshop(t, db, "alpha-garage")
	beta := seedWorkshop(t, db, "beta-motors")
	_, err := repo.CreateMembership(ctx, beta.ID, userID, enums.MemberRoleTechnician)
	require.NoError(t, err)
	_, err = repo.CreateMembership(ctx, alpha.ID, userID, enums.MemberRoleAdmin)
	require.NoError(t, err)
	_, err = repo.CreateMembership(ctx, alpha.ID, uuid.New(), enums.MemberRoleManager)
	require.NoError(t, err)

	rows, err := repo.ListUserWorkshops(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// ordered by workshop name
	assert.Equal(t, alpha.ID, rows[0].WorkshopID)
	assert.Equal(t, enums.MemberRoleAdmin, rows[0].Role)
	assert.Equal(t, beta.ID, rows[1].WorkshopID)
}

func TestCreateMembershipRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	db := setupMembershipTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateMembership(context.Background(), uuid.New(), uuid.New(), enums.MemberRole("janitor"))
	assert.Error(t, err)
}

func TestUserHasRole(t *testing.T) {
	t.Parallel()

	db := setupMembershipTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	workshop := seedWorkshop(t, db, "gamma-shop")
	userID := uuid.New()
	_, err := repo.CreateMembership(ctx, workshop.ID, userID, enums.MemberRoleTechnician)
	require.NoError(t, err)

	ok, err := repo.UserHasRole(ctx, userID, workshop.ID, enums.MemberRoleTechnician, enums.MemberRoleManager)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserHasRole(ctx, userID, workshop.ID, enums.MemberRoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UserHasRole(ctx, userID, workshop.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
