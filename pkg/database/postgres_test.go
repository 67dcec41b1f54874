package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/study-planner-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "planner",
		Password: "pw",
		Name:     "study_planner",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5433 user=planner password=pw dbname=study_planner sslmode=disable", dsn)
}
