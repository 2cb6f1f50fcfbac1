package user

import (
	"time"

	types "lavka-main/internal/types/user"
)

// User структура пользователя
type User struct {
	ID               string    `json:"user_id"` // uuid
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	PasswordHash     string    `json:"-"`
	IsAdmin          bool      `json:"is_admin"`
	RegistrationDate time.Time `json:"registration_date"`
}

// UserRepo интерфейс удовлетворяющий методам сущности пользователя
//
//go:generate mockgen -source=internal/user/user.go -destination=internal/mocks/mock_user_repo.go -package=mocks
type UserRepo interface {
	// CheckUser - проверяет пользователя по почте и паролю
	CheckUser(email, password string) (*User, error)
	// CreateUser создает пользователя
	CreateUser(u types.CreateUser) (*User, error)
	// Info возвращает информацию о пользователе
	Info(userID string) (*User, error)
	// ChangeProfile меняет поля пользователя с userID по updateUser
	ChangeProfile(userID string, updateUser types.ChangeUser) (*User, error)
}
