package main

import (
	"context"
	"strings"
	"time"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/user"
)

// addAdmin updates or creates an active user.User holding the ADMIN role.
func (cli *commandLine) addAdmin(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanEmail(email)

	firstName, lastName := splitName(name)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		usr = user.User{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Role:      user.RoleAdmin,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.FirstName = firstName
	usr.LastName = lastName
	usr.Role = user.RoleAdmin // promote whatever role the account held
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	isActive := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	return err
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
