package db

import "gorm.io/gorm"

// Database hands out the shared gorm handle. Both the device registry
// and the oracle record store run on the same connection pool.
type Database interface {
	GetDB() *gorm.DB
}

// GormDatabase is the postgres-backed implementation built by Connect.
type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }
