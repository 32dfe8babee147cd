package service

import (
	"io"
	"path/filepath"
	"testing"

	"ChangMatch/internal/config"
	"ChangMatch/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ServiceCategory{},
		&model.Provider{},
		&model.Customer{},
		&model.Match{},
		&model.MatchHistory{},
		&model.JobProgressTracking{},
		&model.CustomerFeedback{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		AutoMatchLimit:     5,
		AutoScoreThreshold: 0.5,
		DefaultPageSize:    10,
		ProgressPageSize:   20,
	}
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.ServiceCategory {
	t.Helper()
	c := &model.ServiceCategory{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProvider(t *testing.T, db *gorm.DB, p model.Provider) *model.Provider {
	t.Helper()
	if p.Name == "" {
		p.Name = "ช่างทดสอบ"
	}
	if p.Phone == "" {
		p.Phone = "0812345678"
	}
	p.IsActive = true
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedCustomer(t *testing.T, db *gorm.DB, c model.Customer) *model.Customer {
	t.Helper()
	if c.Name == "" {
		c.Name = "ลูกค้าทดสอบ"
	}
	if c.Phone == "" {
		c.Phone = "0898765432"
	}
	c.IsActive = true
	require.NoError(t, db.Create(&c).Error)
	return &c
}
