package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// WorkshopMembership binds a user to a workshop with a role. A user may
// belong to several workshops but holds at most one role in each.
type WorkshopMembership struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkshopID uuid.UUID        `gorm:"column:workshop_id;type:uuid;not null;uniqueIndex:idx_membership_workshop_user"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_membership_workshop_user"`
	Role       enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Workshop *Workshop `gorm:"foreignKey:WorkshopID"`
	User     *User     `gorm:"foreignKey:UserID"`
}
