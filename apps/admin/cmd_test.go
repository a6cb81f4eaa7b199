package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ArKa3003/arkamed/core/casebank"
	"github.com/ArKa3003/arkamed/core/user"
	dummydb "github.com/ArKa3003/arkamed/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return &commandLine{
		usrRepo:  dummydb.NewUserRepository(db),
		caseRepo: dummydb.NewCaseRepository(db),
	}
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      user.RoleStudent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "achievement", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, cli.usrRepo, "Awe", "awe@test.cd", "mdr")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := cli.usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("LordOfTheRings"), nil }

	t.Run("missing flags help", func(t *testing.T) {
		if err := cli.run([]string{"admin", "adduser", "-name", "Hugo"}); err != errHelp {
			t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
		}
	})

	t.Run("creates admin", func(t *testing.T) {
		if err := cli.run([]string{"admin", "adduser", "-name", "Hugo", "-email", "hugo@test.cd", "-admin"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "hugo@test.cd")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed, %v", err)
		}
		if usr.Role != user.RoleAdmin {
			t.Errorf("Role = %s, want %s", usr.Role, user.RoleAdmin)
		}
		if !usr.IsActive {
			t.Error("user not active")
		}
		if err := usr.CheckPassword("LordOfTheRings"); err != nil {
			t.Error("password not set")
		}
	})

	t.Run("updates existing user", func(t *testing.T) {
		if err := cli.run([]string{"admin", "adduser", "-name", "Hugo Cabret", "-email", "hugo@test.cd"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "hugo@test.cd")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed, %v", err)
		}
		if usr.Name != "Hugo Cabret" {
			t.Errorf("Name = %s, want %s", usr.Name, "Hugo Cabret")
		}
		// the admin role is kept unless explicitly granted again
		if usr.Role != user.RoleAdmin {
			t.Errorf("Role = %s, want %s", usr.Role, user.RoleAdmin)
		}
	})
}

func Test_commandLine_loadCases(t *testing.T) {
	cli := setup(t)

	newCases := []casebank.NewCase{
		{
			Title:    "Acute chest pain in a 54-year-old",
			Vignette: "A 54-year-old male presents with acute substernal chest pain...",
			Category: casebank.CategoryChestPain,
			Options: []casebank.ImagingOption{
				{Key: "cxr", Label: "Chest X-ray", Appropriateness: 8},
				{Key: "none", Label: "No imaging indicated", Appropriateness: 2},
			},
			CorrectOption: "cxr",
			Difficulty:    casebank.DifficultyModerate,
		},
	}
	data, err := json.Marshal(newCases)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cases.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile() failed: %v", err)
	}

	if err := cli.run([]string{"admin", "loadcases", "-file", path}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	cases, err := cli.caseRepo.QueryAllCases(context.Background())
	if err != nil {
		t.Fatalf("QueryAllCases() failed: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("len(cases) = %d, want 1", len(cases))
	}

	// reloading the same file skips existing titles
	if err := cli.run([]string{"admin", "loadcases", "-file", path}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	cases, _ = cli.caseRepo.QueryAllCases(context.Background())
	if len(cases) != 1 {
		t.Errorf("len(cases) = %d, want 1", len(cases))
	}
}
