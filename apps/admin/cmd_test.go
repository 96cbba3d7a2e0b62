package main

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	usrRepo := dummydb.NewUserRepository(db)
	return &commandLine{usrRepo: usrRepo}, usrRepo
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)

	usr := user.User{Name: "Awe", Username: "awe", Email: "awe@test.cd", Role: core.RoleTeacher}
	usr.SetActive(true)
	require.NoError(t, usr.SetPassword("mdr"))
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, pwd: "lol"},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				require.NoError(t, err)
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
				usr = refreshedUsr
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "ben"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "ben", "-email", "ben@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-username", "ben", "-email", "ben@test.cd"}, pwd: "lol"},
		{name: "create admin", args: []string{"adduser", "-username", "root", "-email", "root@test.cd", "-admin"}, pwd: "lol"},
		{name: "update existing", args: []string{"adduser", "-username", "ben", "-email", "ben@test.cd", "-admin"}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
		})
	}

	ben, err := usrRepo.GetUserByUsernameOrEmail(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, ben.Role)
	assert.NoError(t, ben.CheckPassword("lmao"))

	root, err := usrRepo.GetUserByUsernameOrEmail(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, root.Role)

	users, err := usrRepo.QueryUsers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)
	cli.db = &sqlx.DB{}

	var migrated, created bool
	migrateFunc = func(db *sql.DB) error { migrated = true; return nil }
	createDBFunc = func(conf *core.Config) error { created = true; return nil }

	require.NoError(t, cli.run([]string{"admin", "createdb"}))
	assert.True(t, created)

	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	assert.True(t, migrated)
}
