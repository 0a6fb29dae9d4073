package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are generated in the application so rows carry their id before insert.

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (d *AttendanceDay) BeforeCreate(*gorm.DB) error      { assignID(&d.ID); return nil }
func (e *EmployeeAttendance) BeforeCreate(*gorm.DB) error { assignID(&e.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error           { assignID(&a.ID); return nil }
func (b *Billing) BeforeCreate(*gorm.DB) error            { assignID(&b.ID); return nil }
func (i *BillingItem) BeforeCreate(*gorm.DB) error        { assignID(&i.ID); return nil }
func (c *NumberingCategory) BeforeCreate(*gorm.DB) error  { assignID(&c.ID); return nil }
func (e *Employee) BeforeCreate(*gorm.DB) error           { assignID(&e.ID); return nil }
func (p *PurchaseOrder) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (i *PurchaseOrderItem) BeforeCreate(*gorm.DB) error  { assignID(&i.ID); return nil }
func (t *Tax) BeforeCreate(*gorm.DB) error                { assignID(&t.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error               { assignID(&u.ID); return nil }
func (v *VendorPriceList) BeforeCreate(*gorm.DB) error    { assignID(&v.ID); return nil }
