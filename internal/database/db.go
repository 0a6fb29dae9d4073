package database

import (
	"context"

	ierr "erp/internal/errors"
	"erp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError turns unique violations into gorm.ErrDuplicatedKey for the repositories.
// The schema is migrated separately through Migrate.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to database").
			Mark(ierr.ErrDatabase)
	}

	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.AuditLog{},
		&model.NumberingCategory{},
		&model.Billing{},
		&model.BillingItem{},
		&model.Employee{},
		&model.AttendanceDay{},
		&model.EmployeeAttendance{},
		&model.Tax{},
		&model.VendorPriceList{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
	)
}

// Pinger reports connectivity of a gorm connection.
type Pinger struct {
	db   *gorm.DB
	name string
}

func NewPinger(db *gorm.DB, name string) *Pinger {
	return &Pinger{db: db, name: name}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Pinger) Name() string {
	return p.name
}
