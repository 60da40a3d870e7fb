package repo

import (
	"gorm.io/gorm"
)

// GormRepo is the persistence gateway for every aggregate. Reads return
// gorm.ErrRecordNotFound untouched so callers can map it to their own
// not-found semantics.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
