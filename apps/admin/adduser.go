package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			Email:     email,
			Role:      user.RoleStudent,
			CreatedAt: now,
		}
	}
	usr.Name = name
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
