package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhpenta/nanogen"
	"github.com/mhpenta/nanogen/config"
	"github.com/mhpenta/nanogen/gallery"
	"github.com/mhpenta/nanogen/kvstore"
	"github.com/mhpenta/nanogen/provider/gemini"
	"github.com/mhpenta/nanogen/session"
	"github.com/mhpenta/nanogen/sl"
	"github.com/mhpenta/nanogen/web"
)

func main() {

	configPath := flag.String("conf", "", "path to optional YAML config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", sl.Err(err))
		os.Exit(1)
	}

	log := sl.New(conf.Env, os.Stdout)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("model", conf.Model),
		sl.Secret(conf.APIKey),
	).Info("starting nanogen")

	if conf.Env == sl.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var store kvstore.Store
	if conf.SessionDB == config.MemoryStore {
		store = kvstore.NewMemory()
		log.Info("using in-memory session storage")
	} else {
		store, err = kvstore.OpenSQLite(ctx, conf.SessionDB)
		if err != nil {
			log.With(slog.String("db", conf.SessionDB)).Error("falling back to memory", sl.Err(err))
			store = kvstore.NewMemory()
		} else {
			log.Info("using SQLite session storage", slog.String("db", conf.SessionDB))
		}
	}

	gen, err := gemini.New(ctx, &nanogen.ProviderConfig{
		Provider: nanogen.ProviderGeminiAPI,
		APIKey:   conf.APIKey,
		BaseURL:  conf.BaseURL,
	})
	if err != nil {
		log.Error("creating gemini provider", sl.Err(err))
		os.Exit(1)
	}

	client := nanogen.NewClient(gen,
		nanogen.WithLogger(log),
		nanogen.WithModel(nanogen.Model(conf.Model)),
	)
	if err := client.Validate(); err != nil {
		log.Error("checking model", slog.String("model", conf.Model), sl.Err(err))
		os.Exit(1)
	}
	generator := gallery.NewGenerator(client, gallery.WithLogger(log))

	srv, err := web.New(session.NewStore(store, log), generator, log)
	if err != nil {
		log.Error("creating web server", sl.Err(err))
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              conf.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped with error", sl.Err(err))
			sigChan <- syscall.SIGTERM
		}
	}()

	log.Info("listening", slog.String("addr", conf.Addr))

	sig := <-sigChan
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	// generation requests can take a while; give them time to land
	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", sl.Err(err))
	}

	drained := make(chan struct{})
	go func() {
		generator.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn("generation still running at exit")
	}

	if err := client.Close(); err != nil {
		log.Error("closing client", sl.Err(err))
	}
	if err := store.Close(); err != nil {
		log.Error("closing session store", sl.Err(err))
	}

	log.Info("shutdown complete")
}
