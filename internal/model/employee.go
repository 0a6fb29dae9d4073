package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DescriptorLength is the length of a usable face-recognition descriptor.
const DescriptorLength = 128

// Employee is the HR master record. InTime, OutTime and WorkingHours mirror the
// employee's latest attendance entry and are only written by the attendance service.
type Employee struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"employeeId"`
	FirstName    string         `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string         `gorm:"type:varchar(100)" json:"lastName"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Department   string         `gorm:"type:varchar(100)" json:"department"`
	Descriptor   []float64      `gorm:"type:jsonb;serializer:json" json:"descriptor,omitempty"`
	InTime       *time.Time     `json:"inTime"`
	OutTime      *time.Time     `json:"outTime"`
	WorkingHours float64        `gorm:"type:decimal(6,2);not null;default:0" json:"workingHours"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// HasValidDescriptor reports whether the stored descriptor can be used for recognition.
func (e *Employee) HasValidDescriptor() bool {
	return len(e.Descriptor) == DescriptorLength
}
