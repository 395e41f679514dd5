package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"marmar/internal/app"
	"marmar/internal/httputil"
	"marmar/internal/interaction"
	"marmar/internal/web"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("marmar listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut down when a signal arrives or the server fails
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("server stopped")
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log)

	r.Get("/", pageHandler(deps))
	r.Post("/", checkHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	return r
}

func pageHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(deps, w, r, http.StatusOK, web.NewPage())
	}
}

// checkHandler validates the form and runs one interaction check per submit.
func checkHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.Fail(deps.Log, w, "invalid form", err, http.StatusBadRequest)
			return
		}
		form := web.FormFromValues(r.PostForm)

		if err := httputil.Validator.Struct(&form); err != nil {
			deps.Log.Warn("form validation failed",
				"fields", httputil.InvalidFields(err),
				"request_id", middleware.GetReqID(r.Context()),
			)
			render(deps, w, r, http.StatusUnprocessableEntity, web.ValidationPage(form))
			return
		}

		res := deps.Checker.Evaluate(r.Context(), form.Request())

		status := http.StatusOK
		if res.Kind == interaction.KindFailure {
			status = http.StatusBadGateway
		}
		render(deps, w, r, status, web.ResultPage(form, res))
	}
}

func render(deps app.Deps, w http.ResponseWriter, r *http.Request, status int, page web.Page) {
	if err := deps.Renderer.Render(w, status, page); err != nil {
		httputil.Fail(deps.Log.With("request_id", middleware.GetReqID(r.Context())), w, "failed to render page", err, http.StatusInternalServerError)
	}
}
