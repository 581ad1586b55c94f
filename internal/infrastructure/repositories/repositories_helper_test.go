package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		legal_name TEXT,
		entity_type TEXT NOT NULL DEFAULT '',
		description TEXT,
		verification_status TEXT NOT NULL DEFAULT 'UNVERIFIED',
		verification_token TEXT NOT NULL DEFAULT '',
		platform_verified_at DATETIME,
		domain_verified_at DATETIME,
		verified_domain TEXT,
		verified_platforms TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createDomainClaimTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE domain_claims (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		domain TEXT NOT NULL UNIQUE,
		txt_token TEXT NOT NULL,
		status TEXT NOT NULL,
		dns_verified BOOLEAN NOT NULL DEFAULT 0,
		verified_at DATETIME,
		email_issued TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createBioCodeTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE bio_codes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		profile_url TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		verified_at DATETIME,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX idx_bio_codes_live ON bio_codes (user_id, platform) WHERE status = 'PENDING';`)
}

func createPlatformAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE platform_accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		external_id TEXT NOT NULL,
		handle TEXT,
		profile_url TEXT,
		status TEXT NOT NULL,
		verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, provider),
		UNIQUE (provider, external_id)
	);`)
}
