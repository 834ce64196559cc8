package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// TestLoadPermissions_Success tests successfully loading permissions from YAML
func TestLoadPermissions_Success(t *testing.T) {
	tmpDir := t.TempDir()
	permFile := filepath.Join(tmpDir, "permissions.yml")

	content := `roles:
  ADMIN:
    - patient:create
    - patient:view
    - patient:purge
  DOCTOR:
    - patient:view
    - appointment:transition
  NURSE:
    - patient:view
`

	if err := os.WriteFile(permFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test permissions file: %v", err)
	}

	perms, err := LoadPermissions(permFile)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	adminPerms, exists := perms["ADMIN"]
	if !exists {
		t.Error("Expected ADMIN role to exist")
	}
	if len(adminPerms) != 3 {
		t.Errorf("Expected 3 permissions for ADMIN, got %d", len(adminPerms))
	}
	if !contains(adminPerms, "patient:purge") {
		t.Error("Expected ADMIN to have 'patient:purge' permission")
	}
	if !contains(perms["DOCTOR"], "appointment:transition") {
		t.Error("Expected DOCTOR to have 'appointment:transition' permission")
	}
}

func TestLoadPermissions_MissingFile(t *testing.T) {
	if _, err := LoadPermissions("/nonexistent/permissions.yml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadPermissions_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	permFile := filepath.Join(tmpDir, "permissions.yml")
	if err := os.WriteFile(permFile, []byte("roles:\n  - : ["), 0644); err != nil {
		t.Fatalf("Failed to write test permissions file: %v", err)
	}
	if _, err := LoadPermissions(permFile); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadPermissions_ShippedFile(t *testing.T) {
	perms, err := LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load shipped permissions.yml: %v", err)
	}
	if !contains(perms["ADMIN"], "patient:purge") {
		t.Error("Expected ADMIN to be able to purge patients")
	}
	if contains(perms["NURSE"], "patient:create") {
		t.Error("Expected NURSE not to create patients")
	}
	if !contains(perms["BILLING"], "invoice:transition") {
		t.Error("Expected BILLING to transition invoices")
	}
}

func TestHasPermission(t *testing.T) {
	perms := Permissions{
		"ADMIN":  {"patient:create", "patient:view"},
		"DOCTOR": {"patient:view"},
	}

	admin := &Principal{UserID: "u1", Roles: []string{"ADMIN"}}
	if !HasPermission(admin, "patient:create", perms) {
		t.Error("Expected ADMIN to have patient:create")
	}

	doctor := &Principal{UserID: "u2", Roles: []string{"DOCTOR"}}
	if HasPermission(doctor, "patient:create", perms) {
		t.Error("Expected DOCTOR not to have patient:create")
	}

	// Role names from the identity provider may be lowercase
	lower := &Principal{UserID: "u3", Roles: []string{"doctor"}}
	if !HasPermission(lower, "patient:view", perms) {
		t.Error("Expected lowercase role to match uppercase permission entry")
	}

	nobody := &Principal{UserID: "u4", Roles: []string{"VISITOR"}}
	if HasPermission(nobody, "patient:view", perms) {
		t.Error("Expected unknown role to have no permissions")
	}
}
