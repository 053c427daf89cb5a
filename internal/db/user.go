package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers and statuses. Billing itself happens elsewhere;
// the API only reads these fields to decide premium vs free-tier data.
const (
	TierFree       = "free"
	TierSubscriber = "subscriber"

	StatusNone     = "none"
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

// User is an account that can sign in with email/password or Google
// and own an API key. Subscription fields gate access to the live
// (premium) stat tables.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Email        string `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	FirstName *string `gorm:"size:100" json:"first_name"`
	LastName  *string `gorm:"size:100" json:"last_name"`

	// GoogleID links the account to a Google subject after the OAuth
	// flow. Accounts are auto-linked by verified email.
	GoogleID *string `gorm:"uniqueIndex;size:64" json:"-"`

	// APIKey authenticates requests via the X-API-Key header. Nil
	// means no key has been generated (or it was revoked).
	APIKey *string `gorm:"uniqueIndex;size:64" json:"-"`

	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
	IsVerified  bool `gorm:"default:false" json:"is_verified"`

	SubscriptionTier   string `gorm:"size:20;not null;default:free" json:"subscription_tier"`
	SubscriptionStatus string `gorm:"size:20;not null;default:none" json:"subscription_status"`

	// HasBiddingPackage records the one-time bidding package purchase,
	// independent of the subscription tier.
	HasBiddingPackage bool `gorm:"default:false" json:"has_bidding_package"`
}

// BeforeCreate assigns a UUID so callers never insert a zero ID.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPremiumAccess reports whether the user reads the live tables
// instead of the free-tier snapshots.
func (u *User) HasPremiumAccess() bool {
	if u.IsSuperuser {
		return true
	}
	return u.SubscriptionTier == TierSubscriber &&
		(u.SubscriptionStatus == StatusActive || u.SubscriptionStatus == StatusTrialing)
}

// HasBiddingPackageAccess reports whether the user may read the
// bidding package pages.
func (u *User) HasBiddingPackageAccess() bool {
	return u.IsSuperuser || u.HasBiddingPackage
}

// Session is a cookie-backed login session. Expired rows are purged
// by the session cleanup worker.
type Session struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`

	User User `gorm:"foreignKey:UserID"`
}

// Favorite marks a bidding-package signup a user has starred.
type Favorite struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorite_user_signup,priority:1;not null"`
	SignupID string    `gorm:"size:64;uniqueIndex:idx_favorite_user_signup,priority:2;not null"`
}
