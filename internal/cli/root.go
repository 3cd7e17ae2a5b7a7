package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
)

func (a *App) getStatus() string {
	if a.session.IsAuthenticated() {
		return fmt.Sprintf("(%s)", a.session.Username())
	}
	return ""
}

// Root runs the command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to MediaKeeper CLI (type 'help' for commands)")

	for {
		fmt.Printf("mk %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: addsource, rmsource <id>, list, items <id> [force], secret <slot>, ttl <hours>, proxy <url>, testproxy, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}
		case "register":
			if err := a.Register(ctx); err != nil {
				log.Printf("error: %v", err)
			}
		case "login":
			if err := a.Login(ctx); err != nil {
				log.Printf("error: %v", err)
			}
		case "logout":
			a.Logout(ctx)
		case "addsource":
			a.addSource(ctx)
		case "rmsource":
			a.removeSource(ctx, args)
		case "list":
			a.listSources(ctx)
		case "items":
			a.showItems(ctx, args)
		case "secret":
			a.setSecret(ctx, args)
		case "ttl":
			a.setTTL(ctx, args)
		case "proxy":
			a.setCustomProxy(ctx, args)
		case "testproxy":
			a.testProxy(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// requireLogin gates commands that need the session key.
func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		fmt.Println("Please login first")
		return false
	}
	return true
}
