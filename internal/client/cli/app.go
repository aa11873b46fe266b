package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/config"
	"github.com/dmitrijs2005/filesmanager/internal/client/models"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// api is the part of client.Client the commands use.
type api interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*models.User, error)
	Connect(ctx context.Context, email, password string) error
	Disconnect(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Create(ctx context.Context, f client.NewFile) (*models.File, error)
	Get(ctx context.Context, id string) (*models.File, error)
	List(ctx context.Context, parentID string, page int) ([]models.File, error)
	Publish(ctx context.Context, id string) (*models.File, error)
	Unpublish(ctx context.Context, id string) (*models.File, error)
	Download(ctx context.Context, id string, size int) ([]byte, string, error)
}

type App struct {
	config *config.Config
	api    api
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	mu       sync.RWMutex
	mode     Mode
	userName string
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	return newApp(c, client.New(c.ServerURL, c.RequestTimeout), logger, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, a api, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    a,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run starts the status watcher and the REPL, and signs out when the REPL
// ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to files manager CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err == nil {
		a.setMode(ctx, ModeOnline)
	} else {
		a.setMode(ctx, ModeOffline)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.Logout(context.WithoutCancel(ctx))
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var parts []string
	if a.userName != "" {
		parts = append(parts, a.userName)
	}
	if a.mode != "" {
		parts = append(parts, string(a.mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// report prints err for the user and returns it. An unauthorized answer
// while logged in means the session expired, so the local user is dropped.
func (a *App) report(ctx context.Context, err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ctx, ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, client.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please login first")
	case errors.Is(err, client.ErrUnauthorized):
		if a.isLoggedIn() {
			a.setUser("")
			fmt.Fprintln(a.out, "Session expired, please login again")
		} else {
			fmt.Fprintln(a.out, "Unauthorized")
		}
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Message)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}
