package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	app := cli.NewApp()
	app.Name = "tune-server"
	app.Usage = "Music player companion server and storage."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   3000,
			Usage:   "port to run server on",
			EnvVars: []string{"TUNE_PORT"},
		},
		&cli.StringFlag{
			Name:     "data-directory",
			Usage:    "data directory where the catalog, database and downloads are stored",
			EnvVars:  []string{"TUNE_DATA_DIR"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "jamendo-client-id",
			Usage:   "Jamendo API client id used by the discovery endpoints",
			EnvVars: []string{"TUNE_JAMENDO_CLIENT_ID"},
		},
	}
	app.Action = func(ctx *cli.Context) error {
		handler, err := newServer(ctx.String("data-directory"), ctx.String("jamendo-client-id"))
		if err != nil {
			return err
		}
		defer handler.db.Close()

		// Start HTTP handler.
		quit := make(chan os.Signal, 2)
		var wg sync.WaitGroup
		wg.Add(1)

		server := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

		go func() {
			defer wg.Done()

			slog.Info("serving", "address", server.Addr)

			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
				quit <- os.Interrupt
			}
		}()

		signal.Notify(
			quit,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGHUP,
		)
		<-quit

		slog.Info("Server shutting down...")

		go server.Close()

		wg.Wait()
		return nil
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
