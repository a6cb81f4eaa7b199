package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

type dbUser struct {
	ID                  string       `db:"id"`
	Name                string       `db:"name"`
	Email               string       `db:"email"`
	Role                string       `db:"role"`
	IsActive            bool         `db:"is_active"`
	OnboardingCompleted bool         `db:"onboarding_completed"`
	SpecialtyTrack      string       `db:"specialty_track"`
	PasswordHash        []byte       `db:"password_hash"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
	LastLogin           sql.NullTime `db:"last_login"`
}

func (du dbUser) toUser() user.User {
	usr := user.User{
		ID:                  du.ID,
		Name:                du.Name,
		Email:               du.Email,
		Role:                du.Role,
		IsActive:            du.IsActive,
		OnboardingCompleted: du.OnboardingCompleted,
		SpecialtyTrack:      du.SpecialtyTrack,
		PasswordHash:        du.PasswordHash,
		CreatedAt:           du.CreatedAt,
		UpdatedAt:           du.UpdatedAt,
	}
	if du.LastLogin.Valid {
		usr.LastLogin = du.LastLogin.Time
	}
	return usr
}

func toDBUser(usr user.User) dbUser {
	du := dbUser{
		ID:                  usr.ID,
		Name:                usr.Name,
		Email:               usr.Email,
		Role:                usr.Role,
		IsActive:            usr.IsActive,
		OnboardingCompleted: usr.OnboardingCompleted,
		SpecialtyTrack:      usr.SpecialtyTrack,
		PasswordHash:        usr.PasswordHash,
		CreatedAt:           usr.CreatedAt,
		UpdatedAt:           usr.UpdatedAt,
	}
	if !usr.LastLogin.IsZero() {
		du.LastLogin = sql.NullTime{Time: usr.LastLogin, Valid: true}
	}
	return du
}

func toUsers(dus []dbUser) []user.User {
	users := make([]user.User, 0, len(dus))
	for _, du := range dus {
		users = append(users, du.toUser())
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT COUNT(*) FROM "user" WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT COUNT(*) FROM "user" WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building query")
		}
		query = repo.db.Rebind(query)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	du := toDBUser(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (id, name, email, role, is_active, onboarding_completed, specialty_track,
		                    password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :role, :is_active, :onboarding_completed, :specialty_track,
		        :password_hash, :created_at, :updated_at, :last_login)`, du)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var dus []dbUser
	if err := repo.db.SelectContext(ctx, &dus, `SELECT * FROM "user" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toUsers(dus), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var du dbUser
	if err := repo.db.GetContext(ctx, &du, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by ID")
	}
	return du.toUser(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var du dbUser
	if err := repo.db.GetContext(ctx, &du, `SELECT * FROM "user" WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return du.toUser(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, orderings ...core.DBOrdering) ([]user.User, error) {
	query := `SELECT * FROM "user" WHERE 1=1`
	var args []interface{}

	if filter.Search != "" {
		query += ` AND (name ILIKE ? OR email ILIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, filter.Role)
	}
	if filter.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, filter.CreatedTo)
	}
	query += orderBy(orderings, "created_at ASC")

	var dus []dbUser
	if err := repo.db.SelectContext(ctx, &dus, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return toUsers(dus), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	existing, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	if usr.Name != "" {
		existing.Name = usr.Name
	}
	if usr.Email != "" {
		existing.Email = usr.Email
	}
	if usr.Role != "" {
		existing.Role = usr.Role
	}
	if usr.SpecialtyTrack != "" {
		existing.SpecialtyTrack = usr.SpecialtyTrack
	}
	if usr.PasswordHash != nil {
		existing.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		existing.IsActive = *isActive
	}
	existing.UpdatedAt = usr.UpdatedAt

	return repo.UpdateOrCreateUser(ctx, existing)
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	du := toDBUser(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (id, name, email, role, is_active, onboarding_completed, specialty_track,
		                    password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :role, :is_active, :onboarding_completed, :specialty_track,
		        :password_hash, :created_at, :updated_at, :last_login)
		ON CONFLICT (id) DO UPDATE
		SET name                 = EXCLUDED.name,
		    email                = EXCLUDED.email,
		    role                 = EXCLUDED.role,
		    is_active            = EXCLUDED.is_active,
		    onboarding_completed = EXCLUDED.onboarding_completed,
		    specialty_track      = EXCLUDED.specialty_track,
		    password_hash        = EXCLUDED.password_hash,
		    updated_at           = EXCLUDED.updated_at,
		    last_login           = EXCLUDED.last_login`, du)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func orderBy(orderings []core.DBOrdering, dflt string) string {
	if len(orderings) == 0 {
		return " ORDER BY " + dflt
	}
	clause := " ORDER BY "
	for i, ord := range orderings {
		if i > 0 {
			clause += ", "
		}
		clause += ord.String()
	}
	return clause
}
