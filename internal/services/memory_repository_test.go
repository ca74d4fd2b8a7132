package services

import (
	"strings"
	"sync"
	"time"

	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/campusbridge/auth_service/internal/repository"
	"github.com/google/uuid"
)

// memoryUserRepository is an in-memory credential store double mirroring the
// GORM repository's contract: lookups return (nil, nil) on absence, creates
// enforce uniqueness as ConflictError.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (m *memoryUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, apperr.Conflict("email")
		}
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return nil, apperr.Conflict("username")
		}
		if user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return nil, apperr.Conflict("google_id")
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	m.users[user.ID] = *user
	return user, nil
}

func (m *memoryUserRepository) SaveUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Mirror the unique indexes the real store enforces on save.
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return apperr.Conflict("email")
		}
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return apperr.Conflict("username")
		}
		if user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return apperr.Conflict("google_id")
		}
	}

	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepository) DeleteUser(userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return false, nil
	}
	delete(m.users, userID)
	return true, nil
}

func (m *memoryUserRepository) FindUserByID(userID string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == userID })
}

func (m *memoryUserRepository) FindUserByEmail(email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memoryUserRepository) FindUserByUsername(username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username != nil && *u.Username == username })
}

func (m *memoryUserRepository) FindUserByEmailOrUsername(identifier string) (*domain.User, error) {
	return m.find(func(u domain.User) bool {
		return u.Email == identifier || (u.Username != nil && *u.Username == identifier)
	})
}

func (m *memoryUserRepository) FindUserByGoogleID(googleID string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (m *memoryUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepository) ListUsers(filter repository.UserFilter) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.User
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if s := strings.ToLower(filter.Search); s != "" {
			if !strings.Contains(strings.ToLower(u.FullName), s) &&
				!strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}
