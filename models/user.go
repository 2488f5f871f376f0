package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountBanned      = errors.New("account has been banned by an administrator")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanSuperAdmin      = errors.New("cannot ban the super admin")
	ErrBanAdmin           = errors.New("cannot ban another administrator, demote them first")
	ErrRoleSuperAdmin     = errors.New("cannot change the role of the super admin")
	ErrRoleSelfChange     = errors.New("admin cannot change their own role")
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

const DefaultAvatar = "/uploads/avatars/default.png"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"password,omitempty"`
	Role      Role               `bson:"role" json:"role"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	IsBanned  bool               `bson:"isBanned" json:"isBanned"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// VerifyLogin decides whether the account may obtain a credential. The
// ban flag is checked before the password, so a banned account gets the
// distinct error no matter what password was sent.
func (u User) VerifyLogin(password string) error {
	if u.IsBanned {
		return ErrAccountBanned
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// BanCheck decides whether this account may be banned. The configured
// super admin is exempt regardless of who asks; other admins must be
// demoted first. Unbanning carries no such restriction.
func (u User) BanCheck(superAdminEmail string) error {
	if superAdminEmail != "" && u.Email == superAdminEmail {
		return ErrBanSuperAdmin
	}
	if u.Role == RoleAdmin {
		return ErrBanAdmin
	}
	return nil
}

// RoleChangeCheck decides whether callerID may change this account's
// role. The super admin's role is fixed, and admins cannot change their
// own role.
func (u User) RoleChangeCheck(callerID primitive.ObjectID, superAdminEmail string) error {
	if superAdminEmail != "" && u.Email == superAdminEmail {
		return ErrRoleSuperAdmin
	}
	if u.ID == callerID {
		return ErrRoleSelfChange
	}
	return nil
}

func (u User) IsSeller() bool {
	return u.Role == RoleSeller || u.Role == RoleAdmin
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
