package repositories

import (
	"context"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

const msgUserNotFound = "User not found"

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return writeErr("failed to create user", err, constants.MsgIdentityTaken)
	}
	return nil
}

// GetByIdentity retrieves a user by the identity provider's subject id
func (r *UserRepository) GetByIdentity(ctx context.Context, identityID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		First(&user).Error
	if err != nil {
		return nil, readErr("failed to fetch user", err, msgUserNotFound)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, readErr("failed to fetch user", err, msgUserNotFound)
	}

	return &user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) IdentityExists(ctx context.Context, identityID string) (bool, error) {
	return r.exists(ctx, "identity_id", identityID)
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		return false, readErr("failed to check user "+column, err, "")
	}
	return count > 0, nil
}

// Update applies column updates and returns the fresh record.
func (r *UserRepository) Update(ctx context.Context, id string, updates map[string]any) (*gormModels.User, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, writeErr("failed to update user", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, readErr("failed to update user", gorm.ErrRecordNotFound, msgUserNotFound)
	}
	return r.GetByID(ctx, id)
}

// UpdateColumns writes the named columns from user, which is how the JSON
// serialized list columns are saved.
func (r *UserRepository) UpdateColumns(ctx context.Context, user *gormModels.User, columns ...string) (*gormModels.User, error) {
	if err := r.db.WithContext(ctx).Model(&gormModels.User{ID: user.ID}).Select(columns).Updates(user).Error; err != nil {
		return nil, writeErr("failed to update user", err, "")
	}
	return r.GetByID(ctx, user.ID)
}

func (r *UserRepository) ListByRole(ctx context.Context, role constants.Role) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, readErr("failed to list users by role", err, "")
	}
	return users, nil
}

// ListPendingVerification returns users of the role awaiting review, oldest first.
func (r *UserRepository) ListPendingVerification(ctx context.Context, role constants.Role) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Where("role = ? AND verification_status = ?", role, constants.VerificationPending).
		Order("updated_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, readErr("failed to list pending verifications", err, "")
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.User{})
	if res.Error != nil {
		return writeErr("failed to delete user", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return readErr("failed to delete user", gorm.ErrRecordNotFound, msgUserNotFound)
	}
	return nil
}
