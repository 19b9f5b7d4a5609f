package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

const userColumns = `
	id, full_name, email, password_hash, phone, address, avatar_url,
	avatar_key, is_active, last_login, created_at, updated_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.AvatarURL, &u.AvatarKey, &u.IsActive, &u.LastLogin, &u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Create inserts a new user with the given role set.
func (r *userRepository) Create(ctx context.Context, user *model.User, roles []model.Role) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, full_name, email, password_hash, phone, address,
			avatar_url, avatar_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', '', '', $6, $7, $7)
	`

	_, err = tx.Exec(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.Phone,
		user.IsActive, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("email", user.Email).Msg("email already registered")
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := r.setRolesTx(ctx, tx, user.ID, roles); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}

	user.Roles = roles
	r.logger.Debug().Str("user_id", user.ID.String()).Msg("user created")
	return nil
}

// GetByID retrieves a user with their roles.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user with their roles.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Roles, err = r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) loadRoles(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ro.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.name
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query roles")
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}

// List retrieves users matching the filter with a total count.
func (r *userRepository) List(ctx context.Context, f model.UserFilter) ([]model.User, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(full_name ILIKE "+p+" OR email ILIKE "+p+" OR phone ILIKE "+p+")")
	}
	if f.Active != nil {
		where = append(where, "is_active = "+arg(*f.Active))
	}
	if f.Role != "" {
		where = append(where, `id IN (
			SELECT ur.user_id FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ro.name = `+arg(f.Role)+")")
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+whereClause, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := "SELECT " + userColumns + `
		FROM users
		WHERE ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ` + arg(f.Limit) + " OFFSET " + arg((f.Page-1)*f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	for i := range users {
		users[i].Roles, err = r.loadRoles(ctx, users[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}

	return users, total, nil
}

// UpdateProfile persists full name, phone, address and avatar fields.
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET full_name = $2, phone = $3, address = $4, avatar_url = $5,
			avatar_key = $6, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.FullName, user.Phone, user.Address, user.AvatarURL, user.AvatarKey)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("user %s not found", user.ID)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("user %s not found", id)
	}
	return nil
}

// UpdateLastLogin stamps the last successful login time.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to stamp last login")
		return fmt.Errorf("failed to stamp last login: %w", err)
	}
	return nil
}

// SetRoles replaces the user's role set.
func (r *userRepository) SetRoles(ctx context.Context, id uuid.UUID, roles []model.Role) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}

	if err := r.setRolesTx(ctx, tx, id, roles); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit role update: %w", err)
	}
	return nil
}

func (r *userRepository) setRolesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, roles []model.Role) error {
	for _, role := range roles {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
			ON CONFLICT DO NOTHING
		`, userID, role)
		if err != nil {
			r.logger.Error().Err(err).Str("role", string(role)).Msg("failed to assign role")
			return fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}
	return nil
}

// SetActive toggles the account's active flag.
func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to set active flag")
		return fmt.Errorf("failed to set active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("user %s not found", id)
	}
	return nil
}

// Delete removes a user account.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("user %s not found", id)
	}
	return nil
}
