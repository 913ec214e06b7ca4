// Package seeders loads the baseline data a fresh installation needs:
// the permission catalog, an administrator role and account, and a few
// sample catalog rows for local development.
package seeders

import (
	"context"
	"fmt"

	"lab-system/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@lab-system.local"
	adminPassword = "admin123"
)

func Run(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if err := seedPermissions(ctx, pool); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := seedAdmin(ctx, pool); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedSampleData(ctx, pool); err != nil {
		return fmt.Errorf("seed sample data: %w", err)
	}
	logger.Info("seeding complete")
	return nil
}

func seedPermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, code := range authz.All {
		if _, err := pool.Exec(ctx, `
			INSERT INTO permissions (name, code)
			VALUES ($1, $1)
			ON CONFLICT (code) DO NOTHING`, code); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	var roleID uint64
	err := pool.QueryRow(ctx, `
		INSERT INTO roles (name, code, description)
		VALUES ('Administrator', 'admin', 'Full access')
		ON CONFLICT (code) DO UPDATE SET updated_at = NOW()
		RETURNING id`).Scan(&roleID)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, id FROM permissions WHERE code = $2
		ON CONFLICT DO NOTHING`, roleID, authz.Superuser); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (full_name, email, password_hash, position, role_id, is_active)
		VALUES ('Administrator', $1, $2, 'admin', $3, TRUE)
		ON CONFLICT (email) DO NOTHING`, adminEmail, string(hash), roleID)
	return err
}

func seedSampleData(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		INSERT INTO laboratories (name, site)
		VALUES ('Main Lab', 'HQ')
		ON CONFLICT DO NOTHING`); err != nil {
		return err
	}

	skills := []string{"Spectrometry", "Chromatography", "Thermal Analysis"}
	for _, name := range skills {
		if _, err := pool.Exec(ctx, `
			INSERT INTO skills (name, category)
			VALUES ($1, 'analysis')
			ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}

	// One exclusive instrument and one shared bench with slot capacity.
	if _, err := pool.Exec(ctx, `
		INSERT INTO equipments (name, serial_number, exclusive)
		SELECT 'Mass Spectrometer', 'MS-001', TRUE
		WHERE NOT EXISTS (SELECT 1 FROM equipments WHERE serial_number = 'MS-001')`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO equipments (name, serial_number, exclusive, concurrency_limit, capacity)
		SELECT 'Thermal Bench', 'TB-001', FALSE, 4, 20
		WHERE NOT EXISTS (SELECT 1 FROM equipments WHERE serial_number = 'TB-001')`); err != nil {
		return err
	}
	return nil
}
