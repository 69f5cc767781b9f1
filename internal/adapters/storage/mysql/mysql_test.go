package mysql

import (
	"context"
	"errors"
	"os"
	"testing"

	"livestock-records/internal/store"
	"livestock-records/internal/store/storetest"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreConformance(t *testing.T) {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := NewStore(context.Background(), dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&driver.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&driver.MySQLError{Number: 1452}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestNewStore_RejectsBadDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "not a dsn")
	require.Error(t, err)
}
