package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thehaltingverse/weather-chatbot/config"
	v1 "github.com/thehaltingverse/weather-chatbot/internal/controllers/http/v1"
	"github.com/thehaltingverse/weather-chatbot/internal/repositories"
	"github.com/thehaltingverse/weather-chatbot/internal/services/briefing"
	"github.com/thehaltingverse/weather-chatbot/pkg/httpserver"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

// @title Weather Chatbot API
// @version 1.0.0
// @description Generates LLM-written weather briefings for a city by combining
// @description two forecast providers, ten years of NOAA station history, recent
// @description weather news, and social media chatter.
// @termsOfService http://swagger.io/terms/

// @contact.name Weather Chatbot Support
// @contact.url https://github.com/thehaltingverse/weather-chatbot

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Briefing
// @tag.description Weather briefing generation
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Credentials come from the environment; .env is a dev convenience.
	_ = godotenv.Load()

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	writers := []io.Writer{os.Stdout}
	var hook *observe.SentryHook
	if cnf.Keys.SentryDSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, 0, cnf.IsDevelopment(), cnf.Keys.SentryDSN)
		writers = append(writers, hook)
	}
	l := observe.NewZapLogger(cnf.App.Name, writers...)
	l.SetEnv(cnf.App.Env)
	if hook != nil {
		hook.SetLogger(l)
	}

	app := httpserver.InitFiberServer(cnf.App.Name)

	repos := repositories.InitRepositories(cnf, l)

	service := briefing.NewServiceFromSet(repos, cnf.Pipeline, l)

	v1.NewRouter(
		app,
		service,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{"port": cnf.Server.Port})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
