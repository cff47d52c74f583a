package mysql

import (
	"context"
	"errors"
	"strings"

	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AccountRepository MySQL/GORM implementation of user.Repository
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}


// duplicateField names the unique column a 1062 error refers to.
func duplicateField(err error) string {
	if strings.Contains(err.Error(), "email") {
		return "email"
	}
	return "username"
}

// Save creates the account, or updates its profile and password hash.
func (r *AccountRepository) Save(ctx context.Context, a *user.Account) error {
	row := po.FromAccountDomain(a)
	db := getDB(ctx, r.db)

	var count int64
	if err := db.Model(&po.AccountPO{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
		return err
	}
	var err error
	if count == 0 {
		err = db.Create(row).Error
	} else {
		err = db.Model(&po.AccountPO{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
			"username":       row.Username,
			"username_lower": row.UsernameLower,
			"email":          row.Email,
			"password_hash":  row.PasswordHash,
			"first_name":     row.FirstName,
			"last_name":      row.LastName,
		}).Error
	}
	if isDuplicateKeyError(err) {
		field := duplicateField(err)
		return shared.NewDuplicateError("user", field, field+" is already registered")
	}
	return err
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*user.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername matches the username case-insensitively, or the email.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*user.Account, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	return r.findOne(ctx, "username_lower = ? OR email = ?", key, key)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*user.Account, error) {
	return r.findOne(ctx, "email = ?", user.NormalizeEmail(email))
}

func (r *AccountRepository) findOne(ctx context.Context, query string, args ...interface{}) (*user.Account, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var row po.AccountPO
	err := getDB(ctx, r.db).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

var _ user.Repository = (*AccountRepository)(nil)
