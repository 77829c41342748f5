package database

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := Options{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "seats"}.DSN()

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "app", cfg.User)
	require.Equal(t, "s3cret", cfg.Passwd)
	require.Equal(t, "db:3306", cfg.Addr)
	require.Equal(t, "seats", cfg.DBName)
	require.True(t, cfg.ParseTime)
	require.True(t, cfg.ClientFoundRows)
	require.Equal(t, time.UTC, cfg.Loc)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		body, err := fs.ReadFile(migrations, f)
		require.NoError(t, err)
		require.Contains(t, string(body), "-- +goose Up", f)
		require.Contains(t, string(body), "-- +goose Down", f)
	}
}

func TestActiveSlotKey(t *testing.T) {
	body, err := fs.ReadFile(migrations, "migrations/00003_create_seat_allocations.sql")
	require.NoError(t, err)
	sql := string(body)
	require.True(t, strings.Contains(sql, "UNIQUE KEY uq_allocations_active (seat_id, shift_id, active_slot)"))
}
