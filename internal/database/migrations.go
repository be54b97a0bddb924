package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database. Index
// existence is checked via pg_indexes, so this pass only runs on postgres;
// mysql deployments rely on the tags in the model definitions.
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Todo indexes for filtering and sorting
		{"todos", "idx_todos_organization_id", "organization_id"},
		{"todos", "idx_todos_user_id", "user_id"},
		{"todos", "idx_todos_done", "done"},
		{"todos", "idx_todos_due_date", "due_date"},

		// Membership lookups drive the onboarding status check
		{"organization_memberships", "idx_org_memberships_user_id", "user_id"},
		{"organization_memberships", "idx_org_memberships_organization_id", "organization_id"},

		// Invitation acceptance looks up by token
		{"invitations", "idx_invitations_token", "token"},
		{"invitations", "idx_invitations_organization_id", "organization_id"},

		// User records are resolved by external subject id
		{"users", "idx_users_cognito_user_id", "cognito_user_id"},

		// Audit log is read per organization
		{"audit_logs", "idx_audit_logs_organization_id", "organization_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
