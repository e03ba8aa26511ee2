// ABOUTME: Purchase entitlement marker stored as a small JSON file.
// ABOUTME: A missing or unreadable marker means locked; it is never an error for readers.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EntitlementFileName is the marker file name inside the data directory.
const EntitlementFileName = "entitlement.json"

// Entitlement records an unlock of the full feature set.
type Entitlement struct {
	Unlocked   bool      `json:"unlocked"`
	ProductID  string    `json:"product_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// EntitlementPath returns the marker path inside dataDir.
func EntitlementPath(dataDir string) string {
	return filepath.Join(dataDir, EntitlementFileName)
}

// LoadEntitlement reads the marker at path. Absent or malformed files
// yield a locked entitlement.
func LoadEntitlement(path string) Entitlement {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entitlement{}
	}
	var e Entitlement
	if err := json.Unmarshal(data, &e); err != nil {
		return Entitlement{}
	}
	if strings.TrimSpace(e.ProductID) == "" {
		return Entitlement{}
	}
	return e
}

// IsUnlocked reports whether the marker at path grants the full feature set.
func IsUnlocked(path string) bool {
	return LoadEntitlement(path).Unlocked
}

// Unlock writes an unlocked marker for productID.
func Unlock(path, productID string, at time.Time) (Entitlement, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Entitlement{}, fmt.Errorf("product id is required")
	}
	e := Entitlement{Unlocked: true, ProductID: productID, UnlockedAt: at.UTC()}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return Entitlement{}, fmt.Errorf("marshal entitlement: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return Entitlement{}, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return Entitlement{}, fmt.Errorf("write entitlement: %w", err)
	}
	return e, nil
}

// Revoke removes the marker. A missing marker is not an error.
func Revoke(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove entitlement: %w", err)
	}
	return nil
}
