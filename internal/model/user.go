package model

import (
	"strings"
	"time"
)

// SyntheticPrefix marks seeded doctor profiles that were created without a
// backing identity-provider account. The prefix convention is baked into
// persisted data and cannot change.
const SyntheticPrefix = "sample_"

// AccountRef is a doctor profile's reference to its identity-provider
// account. It keeps the persisted string shape while letting callers
// branch on the kind of reference instead of matching prefixes inline.
type AccountRef string

func (r AccountRef) Absent() bool {
	return r == ""
}

func (r AccountRef) Synthetic() bool {
	return strings.HasPrefix(string(r), SyntheticPrefix)
}

// Real reports whether the reference points at an actual identity-provider
// account that remote calls may touch.
func (r AccountRef) Real() bool {
	return !r.Absent() && !r.Synthetic()
}

func (r AccountRef) UserID() string {
	return string(r)
}

type NotificationSettings struct {
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
	SMS   bool `bson:"sms" json:"sms"`
}

// DefaultNotificationSettings are applied to every doctor account at
// creation; there is no override parameter.
func DefaultNotificationSettings() *NotificationSettings {
	return &NotificationSettings{Email: true, Push: true, SMS: false}
}

const DefaultLanguage = "en"

// User is a document in the users collection, keyed by the
// identity-provider user id.
type User struct {
	ID                   string                `bson:"_id" json:"id"`
	Email                string                `bson:"email" json:"email"`
	FullName             string                `bson:"fullName" json:"fullName"`
	Role                 Role                  `bson:"role" json:"role"`
	PhoneNumber          *string               `bson:"phoneNumber" json:"phoneNumber"`
	PhotoURL             *string               `bson:"photoUrl" json:"photoUrl"`
	DateOfBirth          *time.Time            `bson:"dateOfBirth" json:"dateOfBirth"`
	BloodType            *string               `bson:"bloodType,omitempty" json:"bloodType,omitempty"`
	Allergies            []string              `bson:"allergies,omitempty" json:"allergies,omitempty"`
	StudentID            *string               `bson:"studentId" json:"studentId"`
	StaffID              *string               `bson:"staffId" json:"staffId"`
	IsActive             bool                  `bson:"isActive" json:"isActive"`
	NotificationSettings *NotificationSettings `bson:"notificationSettings,omitempty" json:"notificationSettings,omitempty"`
	Language             string                `bson:"language" json:"language"`
	CreatedAt            time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time             `bson:"updatedAt" json:"updatedAt"`
}
