// Package cli implements the coursehub command-line client:
//
//	coursehub-cli [-s url] [-t seconds] [-c file] register|login|refresh
//
// Results are printed to stdout as JSON.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dmitrijs2005/coursehub/internal/client/api"
	"github.com/dmitrijs2005/coursehub/internal/client/config"
	"github.com/dmitrijs2005/coursehub/internal/common"
)

type App struct {
	config *config.Config
	client api.Client
	prompt prompter
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	client := api.NewHTTPClient(c.ServerURL, c.Timeout)
	if lang := os.Getenv("LANG"); lang != "" {
		client.SetLocale(strings.SplitN(lang, ".", 2)[0])
	}

	return &App{
		config: c,
		client: client,
		prompt: newPrompter(os.Stdin, os.Stderr),
		out:    os.Stdout,
	}
}

// Command returns the first positional argument, skipping the flags the CLI
// understands together with their values.
func Command(args []string) string {
	withValue := append([]string{"-c", "-config", "--config"}, config.Flags...)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if !strings.Contains(arg, "=") && slices.Contains(withValue, arg) {
			i++
		}
	}
	return ""
}

// Run executes one command.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "", "help":
		fmt.Fprintln(a.prompt.out, "Available commands: register, login, refresh")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *App) Register(ctx context.Context) error {
	var req api.RegisterRequest
	var err error

	if req.FullName, err = a.prompt.require("Full name"); err != nil {
		return err
	}
	if req.UserName, err = a.prompt.require("Username"); err != nil {
		return err
	}
	if req.Gender, err = a.prompt.require("Gender (MALE/FEMALE)"); err != nil {
		return err
	}
	req.Gender = strings.ToUpper(req.Gender)

	password, err := a.prompt.secret("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if err := a.client.Register(ctx, req); err != nil {
		return err
	}
	return a.print(map[string]string{"username": req.UserName, "status": "registered"})
}

func (a *App) Login(ctx context.Context) error {
	userName, err := a.prompt.require("Username")
	if err != nil {
		return err
	}

	password, err := a.prompt.secret("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pair, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return err
	}
	return a.print(pair)
}

func (a *App) Refresh(ctx context.Context) error {
	refreshToken, err := a.prompt.require("Refresh token")
	if err != nil {
		return err
	}

	token, err := a.client.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return a.print(map[string]string{"token": token})
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
