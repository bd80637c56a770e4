package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urbanswap/urbanswap-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestUsersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_users_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CHECK (points >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
		"DROP TABLE IF EXISTS users",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestListingsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_listings_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS listings",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (category IN ('Urban Goods', 'Skills Exchange', 'Community Hub'))",
		"CHECK (status IN ('active', 'inactive'))",
		"CREATE INDEX IF NOT EXISTS idx_listings_status_featured",
		"DROP TABLE IF EXISTS listings",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSwapsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_swaps_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS swaps",
		"FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE",
		"FOREIGN KEY (requester_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (offer_type IN ('item', 'service', 'money', 'experience'))",
		"CHECK (status IN ('pending', 'accepted', 'rejected', 'cancelled', 'completed'))",
		"DROP TABLE IF EXISTS swaps",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
