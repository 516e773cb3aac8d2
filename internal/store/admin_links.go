package store

import (
	"database/sql"
	"fmt"
)

// GetAdminRole returns the role linked to the platform user, or "" when no
// active link exists.
func (s *Store) GetAdminRole(platformUserID int64) (string, error) {
	var role string
	err := s.db.QueryRow(`
		SELECT role FROM admin_links
		WHERE telegram_user_id = ? AND is_active = 1
	`, platformUserID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get admin role: %w", err)
	}
	return role, nil
}
