package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "todo-list.com/todo-list/internal/http"
	model "todo-list.com/todo-list/internal/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serves the task list over HTTP and runs the one-time import in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		unsubscribe := a.store.Subscribe(func(tasks []model.Task) {
			log.Printf("task list changed, %d tasks", len(tasks))
		})
		defer unsubscribe()

		imported := a.importer.Start(ctx)
		go func() {
			res := <-imported
			switch {
			case res.Err != nil:
				log.Printf("initial import failed, will retry on next start: %v", res.Err)
			case res.Skipped:
				log.Println("initial import already done")
			default:
				log.Printf("initial import added %d tasks", res.Imported)
			}
		}()

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, httpapi.NewHandler(a.store, a.importer), a.cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", a.cfg.AppURL)
			if err := e.Start(a.cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
