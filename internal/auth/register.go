package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/users"
	dbpkg "github.com/autofixhq/workshop-backend/pkg/db"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/security"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// RegisterWorkshop creates a workshop plus its first admin user in one
// transaction. It is the signup path for a brand-new shop.
func (s *service) RegisterWorkshop(ctx context.Context, req RegisterWorkshopRequest) (*RegisterWorkshopResponse, error) {
	name := strings.TrimSpace(req.WorkshopName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workshop name required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var response *RegisterWorkshopResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		workshop := &models.Workshop{
			ID:   uuid.New(),
			Name: name,
			Slug: slugify(name),
		}
		if err := tx.Create(workshop).Error; err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "workshop name already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create workshop")
		}

		user, err := s.users.WithTx(tx).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        req.Phone,
		})
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		if _, err := s.memberships.WithTx(tx).CreateMembership(ctx, workshop.ID, user.ID, enums.MemberRoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
		}

		response = &RegisterWorkshopResponse{
			WorkshopID: workshop.ID,
			Slug:       workshop.Slug,
			User:       users.FromModel(user),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// slugify lowercases the name and collapses runs of non-alphanumerics
// into single dashes. A short random suffix keeps slugs unique across
// workshops with the same name.
func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "workshop"
	}
	return slug + "-" + uuid.NewString()[:8]
}
