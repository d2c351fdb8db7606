package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "путь к файлу переменных окружения",
		Value: ".env",
	}

	app := &cli.Command{
		Name:  "freelance-web",
		Usage: "веб-интерфейс маркетплейса фриланса поверх REST бэкенда",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "запустить HTTP сервер",
				Flags:  []cli.Flag{envFlag},
				Action: serveAction,
			},
			{
				Name:   "probe",
				Usage:  "проверить доступность бэкенда и выйти",
				Flags:  []cli.Flag{envFlag},
				Action: probeAction,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
