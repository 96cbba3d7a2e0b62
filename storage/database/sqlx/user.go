package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

const userColumns = `id, name, username, email, role, is_active, password_hash, created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT username, email FROM user_account
		 WHERE (username = $1 OR email = $2) AND id != ALL($3)`,
		username, email, idArray(exclIDs),
	)
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	for _, row := range rows {
		if row.Username == username {
			return user.ErrUsernameExists
		}
		if row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO user_account (`+userColumns+`)
		 VALUES (:id, :name, :username, :email, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)`,
		usr,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT `+userColumns+` FROM user_account WHERE id = $1`, id)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT `+userColumns+` FROM user_account WHERE email = $1`, email)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT `+userColumns+` FROM user_account WHERE username = $1 OR email = $1`, uname)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM user_account`
	var clauses []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			clauses = append(clauses, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
		}
		if filter.Role != "" {
			clauses = append(clauses, "role = "+arg(filter.Role))
		}
		if filter.IsActive != nil {
			clauses = append(clauses, "is_active = "+arg(*filter.IsActive))
		}
		if !filter.CreatedFrom.IsZero() {
			clauses = append(clauses, "created_at >= "+arg(filter.CreatedFrom))
		}
		if !filter.CreatedTo.IsZero() {
			clauses = append(clauses, "created_at <= "+arg(filter.CreatedTo))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	orderBy := "username ASC"
	if len(ordering) > 0 {
		parts := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			parts = append(parts, ord.String())
		}
		orderBy = strings.Join(parts, ", ")
	}
	query += " ORDER BY " + orderBy

	users := make([]user.User, 0)
	if err := repo.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	usr.UpdatedAt = time.Now().UTC()

	// only set fields carrying a value; a sparse update must not wipe the rest
	query := `UPDATE user_account
		 SET name = :name, username = :username, email = :email, updated_at = :updated_at,
		     password_hash = COALESCE(:password_hash, password_hash)`
	if usr.Role != "" {
		query += `, role = :role`
	}
	if !usr.LastLogin.IsZero() {
		query += `, last_login = :last_login`
	}
	if isActive != nil {
		usr.IsActive = isActive
		query += `, is_active = :is_active`
	}
	query += ` WHERE id = :id`

	res, err := repo.db.NamedExecContext(ctx, query, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO user_account (`+userColumns+`)
		 VALUES (:id, :name, :username, :email, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, username = EXCLUDED.username, email = EXCLUDED.email,
		     role = EXCLUDED.role, is_active = EXCLUDED.is_active,
		     password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at,
		     last_login = EXCLUDED.last_login`,
		usr,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM user_account WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting users")
}
