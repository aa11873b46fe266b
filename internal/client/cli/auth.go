package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
)

var errEmptyCredentials = errors.New("email and password are required")

func (a *App) credentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	if email == "" || password == "" {
		return "", "", errEmptyCredentials
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.report(ctx, err)
	}

	u, err := a.api.Register(ctx, email, password)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Registered %s (id %s), you can login now\n", u.Email, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.report(ctx, err)
	}

	if err := a.api.Connect(ctx, email, password); err != nil {
		return a.report(ctx, err)
	}
	u, err := a.api.Me(ctx)
	if err != nil {
		return a.report(ctx, err)
	}

	a.setUser(u.Email)
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(ctx, client.ErrNotLoggedIn)
	}
	err := a.api.Disconnect(ctx)
	a.setUser("")
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "%s (id %s)\n", u.Email, u.ID)
	return nil
}
