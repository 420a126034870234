package models

import (
	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Name         string               `gorm:"type:varchar(50);not null"`
	Email        string               `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string               `gorm:"type:varchar(255);not null"`
	IsAdmin      bool                 `gorm:"not null"`
	Tier         identity.Tier        `gorm:"type:varchar(20);not null;index"`
	Points       int                  `gorm:"not null"`
	TotalSpent   decimal.Decimal      `gorm:"type:decimal(14,2);not null"`
	TotalOrders  int                  `gorm:"not null"`
	ReferralCode string               `gorm:"type:varchar(20);uniqueIndex"`
	ReferredBy   *uuid.UUID           `gorm:"type:uuid;index"`
	Wishlist     []uuid.UUID          `gorm:"type:jsonb;serializer:json"`
	Preferences  identity.Preferences `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		Tier:         m.Tier,
		Points:       m.Points,
		TotalSpent:   m.TotalSpent,
		TotalOrders:  m.TotalOrders,
		ReferralCode: m.ReferralCode,
		ReferredBy:   m.ReferredBy,
		Wishlist:     m.Wishlist,
		Preferences:  m.Preferences,
	}
	if u.Wishlist == nil {
		u.Wishlist = []uuid.UUID{}
	}
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.IsAdmin = u.IsAdmin
	m.Tier = u.Tier
	m.Points = u.Points
	m.TotalSpent = u.TotalSpent
	m.TotalOrders = u.TotalOrders
	m.ReferralCode = u.ReferralCode
	m.ReferredBy = u.ReferredBy
	m.Wishlist = u.Wishlist
	m.Preferences = u.Preferences
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
