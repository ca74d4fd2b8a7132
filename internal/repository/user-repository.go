package repository

import (
	"errors"
	"log"
	"strings"

	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres unique_violation.
const uniqueViolationCode = "23505"

// UserFilter narrows ListUsers. Nil fields are ignored.
type UserFilter struct {
	Role     *domain.Role
	IsActive *bool
	Search   string
	Skip     int
	Limit    int
}

// UserRepository is the credential store. Lookups return (nil, nil) when no
// record matches; callers decide whether absence is an error.
type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	SaveUser(user *domain.User) error
	DeleteUser(userID string) (bool, error)
	FindUserByID(userID string) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByUsername(username string) (*domain.User, error)
	FindUserByEmailOrUsername(identifier string) (*domain.User, error)
	FindUserByGoogleID(googleID string) (*domain.User, error)
	ListUsers(filter UserFilter) ([]domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.checkUnique(user); err != nil {
		return nil, err
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		if field, ok := duplicateField(err); ok {
			return nil, apperr.Conflict(field)
		}
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.checkUnique(user); err != nil {
		return err
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		if field, ok := duplicateField(err); ok {
			return apperr.Conflict(field)
		}
		return errors.New("failed to save user")
	}
	return nil
}

// checkUnique names the offending field on a conflict instead of surfacing a
// driver error. Rows owned by the same user are not conflicts, so updates can
// write back unchanged values.
func (r *userRepository) checkUnique(user *domain.User) error {
	if other, err := r.findOne("email = ? AND id <> ?", user.Email, user.ID); err != nil {
		return err
	} else if other != nil {
		return apperr.Conflict("email")
	}
	if user.Username != nil {
		if other, err := r.findOne("username = ? AND id <> ?", *user.Username, user.ID); err != nil {
			return err
		} else if other != nil {
			return apperr.Conflict("username")
		}
	}
	if user.GoogleID != nil {
		if other, err := r.findOne("google_id = ? AND id <> ?", *user.GoogleID, user.ID); err != nil {
			return err
		} else if other != nil {
			return apperr.Conflict("google_id")
		}
	}
	return nil
}

// duplicateField resolves a unique-violation error to the column it hit, for
// writes that race past checkUnique. The constraint name carries the column.
func duplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		switch {
		case strings.Contains(pgErr.ConstraintName, "google_id"):
			return "google_id", true
		case strings.Contains(pgErr.ConstraintName, "username"):
			return "username", true
		default:
			return "email", true
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "email", true
	}
	return "", false
}

func (r *userRepository) DeleteUser(userID string) (bool, error) {
	res := r.db.Delete(&domain.User{}, "id = ?", userID)
	if res.Error != nil {
		log.Printf("delete user error: %v", res.Error)
		return false, errors.New("failed to delete user")
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) FindUserByID(userID string) (*domain.User, error) {
	return r.findOne("id = ?", userID)
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	return r.findOne("email = ?", email)
}

func (r *userRepository) FindUserByUsername(username string) (*domain.User, error) {
	return r.findOne("username = ?", username)
}

func (r *userRepository) FindUserByEmailOrUsername(identifier string) (*domain.User, error) {
	return r.findOne("email = ? OR username = ?", identifier, identifier)
}

func (r *userRepository) FindUserByGoogleID(googleID string) (*domain.User, error) {
	return r.findOne("google_id = ?", googleID)
}

func (r *userRepository) findOne(query string, args ...interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.Where(query, args...).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("find user error: %v", err)
		return nil, errors.New("failed to find user")
	}
	return user, nil
}

func (r *userRepository) ListUsers(filter UserFilter) ([]domain.User, error) {
	q := r.db.Model(&domain.User{})

	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		term := "%" + s + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ? OR username ILIKE ?", term, term, term)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var users []domain.User
	if err := q.Offset(filter.Skip).Limit(limit).Order("created_at").Find(&users).Error; err != nil {
		log.Printf("list users error: %v", err)
		return nil, errors.New("failed to list users")
	}
	return users, nil
}
