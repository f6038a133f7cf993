package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-notifier/config"
	"github.com/marcelsud/webhook-notifier/internal/app"
	"github.com/marcelsud/webhook-notifier/internal/http/chi"
)

const TIMEOUT = 30 * time.Second

/* api serves event ingress, delivery history and template management over HTTP
 * main does the wiring only; the pipeline lives in the domain packages
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := httplog.NewLogger("webhook-notifier", httplog.Options{
		JSON: true,
	})

	a, err := app.New(cfg, logger, app.WithMetrics())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer a.Close(context.Background())

	go reloadOnHangup(ctx, a)

	r := chi.Handlers(ctx, chi.Dependencies{
		Dispatcher: a.Dispatcher,
		History:    a.History,
		Templates:  a.Templates,
		Reload:     a.ReloadTemplates,
		Metrics:    a.Metrics.ServeHTTP(),
	})
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

// reloadOnHangup reloads settings and templates on SIGHUP
func reloadOnHangup(ctx context.Context, a *app.App) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := a.ReloadSettings(ctx); err != nil {
				fmt.Printf("reloading settings: %v\n", err)
			}
			if _, err := a.ReloadTemplates(ctx); err != nil {
				fmt.Printf("reloading templates: %v\n", err)
			}
		}
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
