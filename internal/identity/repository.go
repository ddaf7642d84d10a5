package identity

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, profile Profile, hashedPassword string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, string, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, profile Profile, hashedPassword string) (Identity, error) {
	var id Identity
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (email, password, full_name, phone_number, address, role, created_at)
		VALUES (LOWER($1), $2, $3, $4, $5, 'client', NOW())
		RETURNING id, email, full_name, phone_number, address, role, created_at
	`,
		profile.Email,
		hashedPassword,
		profile.FullName,
		profile.PhoneNumber,
		profile.Address,
	).Scan(&id.ID, &id.Email, &id.FullName, &id.PhoneNumber, &id.Address, &id.Role, &id.CreatedAt)
	if err != nil {
		return Identity{}, err
	}

	return id, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Identity, string, error) {
	var id Identity
	var hashed string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, phone_number, address, role, created_at, password
		FROM clients
		WHERE email = LOWER($1)
	`, email).Scan(&id.ID, &id.Email, &id.FullName, &id.PhoneNumber, &id.Address, &id.Role, &id.CreatedAt, &hashed)

	if err == sql.ErrNoRows {
		return Identity{}, "", ErrAccountNotFound
	}
	if err != nil {
		return Identity{}, "", err
	}

	return id, hashed, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM clients WHERE email = LOWER($1))
	`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
