package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates the vault user.
// On success the session is authenticated and stored secrets are loaded.
// The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, username, password); err != nil {
		fmt.Println(friendlyError(err))
		return nil
	}

	a.onAuthenticated(ctx)
	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the local record.
// Authentication failures are shown to the user and never retried silently.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, username, password); err != nil {
		fmt.Println(friendlyError(err))
		return nil
	}

	a.onAuthenticated(ctx)
	fmt.Println("Login successful")
	return nil
}

// onAuthenticated loads the secret slots with the fresh session key and
// pushes plaintexts into the consumers.
func (a *App) onAuthenticated(ctx context.Context) {
	a.store.Load(ctx, a.session.Key())
	a.applySecrets(ctx)
}

// Logout drops the session key; the registered hook clears decrypted
// secrets held by the store.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	fmt.Println("Logged out")
}
