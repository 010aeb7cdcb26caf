package main

import (
	"Cuisinade/cmd/config"
	"Cuisinade/internal/utils"
	"Cuisinade/internal/utils/storage"
	"Cuisinade/pkg/jwt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := jwt.RequireSecret(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDB()
			if err != nil {
				return err
			}
			images, err := storage.New(ctx)
			if err != nil {
				return err
			}
			app, err := config.NewApp(db, images)
			if err != nil {
				return err
			}

			if port == "" {
				port = utils.GetConfig("APP_PORT")
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infow("starting server", "port", port)
				errCh <- app.Listen(":" + port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info("gracefully shutting down")
				return app.ShutdownWithTimeout(shutdownTimeout)
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (defaults to APP_PORT)")
	return cmd
}
