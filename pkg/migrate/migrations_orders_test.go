package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (subtotal >= 0)",
		"CHECK (discount >= 0)",
		"CHECK (total >= 0)",
		"CHECK (delivery_timing IN ('asap', 'scheduled'))",
		"shop_ids UUID[] NOT NULL DEFAULT ARRAY[]::uuid[]",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPromosMigrationAllowsDuplicateCodes(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_promos.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no promos migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "UNIQUE INDEX IF NOT EXISTS idx_promos_code") {
		t.Errorf("promo codes must not be unique: oldest eligible promo wins on duplicate codes")
	}
	if !strings.Contains(content, "CREATE INDEX IF NOT EXISTS idx_promos_code") {
		t.Errorf("missing plain index on promos.code")
	}
}
