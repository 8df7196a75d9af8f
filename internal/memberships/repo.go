package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// MembershipWithWorkshop joins a membership row with its workshop's display data.
type MembershipWithWorkshop struct {
	MembershipID uuid.UUID        `json:"membership_id"`
	WorkshopID   uuid.UUID        `json:"workshop_id"`
	WorkshopName string           `json:"workshop_name"`
	Role         enums.MemberRole `json:"role"`
}

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

type membershipRow struct {
	ID           uuid.UUID        `gorm:"column:id"`
	WorkshopID   uuid.UUID        `gorm:"column:workshop_id"`
	WorkshopName string           `gorm:"column:workshop_name"`
	Role         enums.MemberRole `gorm:"column:role"`
}

// ListUserWorkshops returns the workshops a user belongs to along with their role.
func (r *Repository) ListUserWorkshops(ctx context.Context, userID uuid.UUID) ([]MembershipWithWorkshop, error) {
	var rows []membershipRow
	err := r.db.WithContext(ctx).
		Model(&models.WorkshopMembership{}).
		Select("workshop_memberships.id, workshop_memberships.workshop_id, workshop_memberships.role, workshops.name AS workshop_name").
		Joins("JOIN workshops ON workshops.id = workshop_memberships.workshop_id").
		Where("workshop_memberships.user_id = ?", userID).
		Order("workshops.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MembershipWithWorkshop, 0, len(rows))
	for _, row := range rows {
		out = append(out, MembershipWithWorkshop{
			MembershipID: row.ID,
			WorkshopID:   row.WorkshopID,
			WorkshopName: row.WorkshopName,
			Role:         row.Role,
		})
	}
	return out, nil
}

// GetMembership retrieves a membership by user and workshop.
func (r *Repository) GetMembership(ctx context.Context, userID, workshopID uuid.UUID) (*models.WorkshopMembership, error) {
	var membership models.WorkshopMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND workshop_id = ?", userID, workshopID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, workshopID, userID uuid.UUID, role enums.MemberRole) (*models.WorkshopMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	membership := &models.WorkshopMembership{
		ID:         uuid.New(),
		WorkshopID: workshopID,
		UserID:     userID,
		Role:       role,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UserHasRole reports whether the user holds one of the provided roles in the workshop.
func (r *Repository) UserHasRole(ctx context.Context, userID, workshopID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkshopMembership{}).
		Where("user_id = ? AND workshop_id = ?", userID, workshopID).
		Where("role IN ?", roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
