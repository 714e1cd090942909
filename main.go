package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/app"
	"github.com/hnguyen/teamboard/internal/auth"
	"github.com/hnguyen/teamboard/internal/cache"
	"github.com/hnguyen/teamboard/internal/model"
)

func main() {
	configPath := flag.String(
		"config",
		model.DefaultConfigPath(),
		"path to the configuration file",
	)
	baseURL := flag.String(
		"api",
		"",
		"backend base URL (overrides the config file)",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "teamboard: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	tokens := auth.NewKeyringStore()

	client := api.NewClient(cfg.API.BaseURL, tokens)
	client.SetTimeout(time.Duration(cfg.API.TimeoutSec) * time.Second)

	tasks := api.NewTaskService(client)
	taskCache := cache.New(
		func(ctx context.Context, view cache.View) (api.Page[model.Task], error) {
			return tasks.List(ctx, api.TaskQuery{
				Type:  string(view),
				Limit: cfg.Cache.PageSize,
			})
		},
		time.Duration(cfg.Cache.FreshnessSec)*time.Second,
	)

	root := app.New(app.Services{
		Auth:          api.NewAuthService(client, tokens),
		Tasks:         tasks,
		Users:         api.NewUserService(client),
		Teams:         api.NewTeamService(client),
		Announcements: api.NewAnnouncementService(client),
		Activities:    api.NewActivityService(client),
		Cache:         taskCache,
		Events:        client.Events(),
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "teamboard: %v\n", err)
		os.Exit(1)
	}
}
