package domain

import "time"

// UserStatus is the numeric account state stored alongside credentials.
type UserStatus int

const (
	UserStatusActive UserStatus = 1
)

// User is the credential store record for a dashboard account.
type User struct {
	ID             int64
	Names          string
	Surnames       string
	Email          string
	Identification string
	PasswordHash   string
	Address        string
	Phone          string
	RoleID         int
	Status         UserStatus
	CreatedAt      time.Time
}

// DisplayName is the name shown in the session identity.
func (u *User) DisplayName() string {
	return u.Names
}
