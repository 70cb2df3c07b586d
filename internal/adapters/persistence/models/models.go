package models

import (
	"time"

	"clinicsales/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'FIELD_USER'" json:"role"`
	RegionID  *uint          `gorm:"index" json:"region_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Region *Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ActingUser converts a persisted user into the identity value the engine
// consumes.
func (u *User) ActingUser() domain.ActingUser {
	return domain.ActingUser{
		ID:       u.ID,
		Role:     domain.Role(u.Role),
		RegionID: u.RegionID,
	}
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	RegionID   *uint     `json:"region_id"`
	RegionName string    `json:"region_name,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		RegionID:  u.RegionID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Region != nil {
		resp.RegionName = u.Region.Name
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Directory Tables (master data)
// ============================================================

// Region groups clinics for visibility scoping
type Region struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Region) TableName() string {
	return "regions"
}

// Clinic is a customer clinic in the directory
type Clinic struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	RegionID    uint           `gorm:"not null;index" json:"region_id"`
	ContactName string         `gorm:"size:100" json:"contact_name"`
	Phone       string         `gorm:"size:30" json:"phone"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Region *Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (Clinic) TableName() string {
	return "clinics"
}

// ============================================================
// Proposal Table
// ============================================================

// Proposal is a sales proposal with its lifecycle state
type Proposal struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatorID       uint           `gorm:"not null;index" json:"creator_id"`
	ClinicID        uint           `gorm:"not null;index" json:"clinic_id"`
	Status          string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalAmount     float64        `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Currency        string         `gorm:"size:3;not null" json:"currency"`
	DiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	Notes           string         `gorm:"type:text" json:"notes"`
	DecidedBy       *uint          `json:"decided_by"`
	DecidedAt       *time.Time     `json:"decided_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator *User   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Clinic  *Clinic `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Decider *User   `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
}

func (Proposal) TableName() string {
	return "proposals"
}

// ClinicRegionID returns the region of the proposal's clinic, nil when the
// clinic relation could not be resolved.
func (p *Proposal) ClinicRegionID() *uint {
	if p.Clinic == nil {
		return nil
	}
	region := p.Clinic.RegionID
	return &region
}

// ProposalResponse DTO
type ProposalResponse struct {
	ID              uint       `json:"id"`
	CreatorID       uint       `json:"creator_id"`
	CreatorName     string     `json:"creator_name,omitempty"`
	ClinicID        uint       `json:"clinic_id"`
	ClinicName      string     `json:"clinic_name,omitempty"`
	RegionID        *uint      `json:"region_id,omitempty"`
	Status          string     `json:"status"`
	TotalAmount     float64    `json:"total_amount"`
	Currency        string     `json:"currency"`
	DiscountPercent float64    `json:"discount_percent"`
	Notes           string     `json:"notes"`
	DecidedBy       *uint      `json:"decided_by"`
	DeciderName     string     `json:"decider_name,omitempty"`
	DecidedAt       *time.Time `json:"decided_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (p *Proposal) ToResponse() *ProposalResponse {
	resp := &ProposalResponse{
		ID:              p.ID,
		CreatorID:       p.CreatorID,
		ClinicID:        p.ClinicID,
		Status:          p.Status,
		TotalAmount:     p.TotalAmount,
		Currency:        p.Currency,
		DiscountPercent: p.DiscountPercent,
		Notes:           p.Notes,
		DecidedBy:       p.DecidedBy,
		DecidedAt:       p.DecidedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	if p.Creator != nil {
		resp.CreatorName = p.Creator.Username
	}
	if p.Clinic != nil {
		resp.ClinicName = p.Clinic.Name
		resp.RegionID = p.ClinicRegionID()
	}
	if p.Decider != nil {
		resp.DeciderName = p.Decider.Username
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Region{},
		&Clinic{},
		&Proposal{},
	)
}
