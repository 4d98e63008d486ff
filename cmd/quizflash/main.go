package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/quizflash/internal/cli"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
)

func main() {
	cfg := config.Load()

	// Logs go to stderr so they never interleave with the quiz on stdout
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
		logger.WithOutput(os.Stderr),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}

	engine := services.NewQuizService(
		sqlite.NewUserRepository(database.DB),
		sqlite.NewFlashcardRepository(database.DB),
		sqlite.NewAnswerRepository(database.DB),
		sqlite.NewStatsRepository(database.DB),
	)
	session := cli.NewSession(engine, os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- session.Run(ctx)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-done:
		if err != nil {
			log.Error("session ended with error: %v", err)
			exitCode = 1
		}
	case sig := <-stop:
		// The session may be blocked reading stdin, so it is not waited for.
		log.Info("received signal %v, shutting down", sig)
		cancel()
	}

	if err := database.Close(); err != nil {
		log.Error("failed to close database: %v", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}
