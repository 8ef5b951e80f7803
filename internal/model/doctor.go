package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultDepartment = "generalMedicine"

// ScheduleSlot is a single bookable window inside a weekday schedule.
type ScheduleSlot struct {
	Start    string `bson:"start" json:"start"`
	End      string `bson:"end" json:"end"`
	IsBooked bool   `bson:"isBooked" json:"isBooked"`
}

// WeeklySchedule maps weekday names to ordered schedule slots.
type WeeklySchedule map[string][]ScheduleSlot

// Weekdays lists the keys every persisted weekly schedule carries, in
// calendar order.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// DefaultWeeklySchedule returns a schedule with all seven weekday keys
// present and mapped to empty slot lists.
func DefaultWeeklySchedule() WeeklySchedule {
	ws := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		ws[day] = []ScheduleSlot{}
	}
	return ws
}

// Doctor is a document in the doctors collection. Its id is generated by
// the store and is distinct from the identity-provider user id it
// references through UserID.
type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          AccountRef         `bson:"userId" json:"userId"`
	Email           string             `bson:"email" json:"email"`
	Name            string             `bson:"name" json:"name"`
	PhotoURL        *string            `bson:"photoUrl" json:"photoUrl"`
	PhoneNumber     *string            `bson:"phoneNumber" json:"phoneNumber"`
	Department      string             `bson:"department" json:"department"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	Bio             string             `bson:"bio" json:"bio"`
	ExperienceYears int                `bson:"experienceYears" json:"experienceYears"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	Qualifications  []string           `bson:"qualifications" json:"qualifications"`
	IsAvailable     bool               `bson:"isAvailable" json:"isAvailable"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	WeeklySchedule  WeeklySchedule     `bson:"weeklySchedule" json:"weeklySchedule"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
