package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface runREPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Mkdir(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Info(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	Unpublish(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". The first token is the command and the rest
// are its arguments. Handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fm %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, mkdir, upload, (l)s, info, publish, unpublish, download, logout, exit")
			} else {
				printlnFn("Available commands: register, login, download, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "mkdir":
			_ = a.Mkdir(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "l", "ls":
			_ = a.List(ctx, args)

		case "info":
			_ = a.Info(ctx, args)

		case "publish":
			_ = a.Publish(ctx, args)

		case "unpublish":
			_ = a.Unpublish(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
