package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/bson"
	"github.com/zoobzio/boomerang/cbor"
	"github.com/zoobzio/boomerang/internal/demo"
	"github.com/zoobzio/boomerang/internal/logging"
	"github.com/zoobzio/boomerang/internal/metrics"
	"github.com/zoobzio/boomerang/json"
	"github.com/zoobzio/boomerang/middleware"
	"github.com/zoobzio/boomerang/msgpack"
	"github.com/zoobzio/boomerang/store/cookie"
	"github.com/zoobzio/boomerang/store/memory"
	"github.com/zoobzio/boomerang/store/redis"
	"github.com/zoobzio/boomerang/yaml"
)

const shutdownTimeout = 5 * time.Second

type serveConfig struct {
	addr      string
	store     string
	redisAddr string
	codec     string
	secret    string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo form server",
	Long:  `Starts an HTTP server with a form that round-trips failed submissions through the relay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelFlag)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		var cfg serveConfig
		cfg.addr, _ = cmd.Flags().GetString("addr")
		cfg.store, _ = cmd.Flags().GetString("store")
		cfg.redisAddr, _ = cmd.Flags().GetString("redis-addr")
		cfg.codec, _ = cmd.Flags().GetString("codec")
		cfg.secret, _ = cmd.Flags().GetString("secret")

		return serve(cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("store", "memory", "Session store (memory, redis, cookie)")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address for --store redis")
	serveCmd.Flags().String("codec", "json", "Codec for stored state (json, yaml, msgpack, bson, cbor)")
	serveCmd.Flags().String("secret", "", "Secret the cookie store key is derived from (or BOOMERANG_SECRET)")
}

func serve(cfg serveConfig, logger *slog.Logger) error {
	codec, err := newCodec(cfg.codec)
	if err != nil {
		return err
	}

	resolver, closer, err := newResolver(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	relay := boomerang.New(codec)
	handler := demo.NewHandler(relay, resolver, metrics.New(), logger)

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "store", cfg.store, "codec", codec.ContentType())
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("killing server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}

func newCodec(name string) (boomerang.Codec, error) {
	switch name {
	case "json":
		return json.New(), nil
	case "yaml":
		return yaml.New(), nil
	case "msgpack":
		return msgpack.New(), nil
	case "bson":
		return bson.New(), nil
	case "cbor":
		return cbor.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newResolver(cfg serveConfig) (middleware.Resolver, io.Closer, error) {
	switch cfg.store {
	case "memory":
		return middleware.ByID(memory.New()), nopCloser{}, nil

	case "redis":
		store := redis.New(cfg.redisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.redisAddr, err)
		}
		return middleware.ByID(store), store, nil

	case "cookie":
		secret := cfg.secret
		if secret == "" {
			secret = os.Getenv("BOOMERANG_SECRET")
		}
		if secret == "" {
			return nil, nil, errors.New("cookie store needs --secret or BOOMERANG_SECRET")
		}
		key, err := boomerang.DeriveKey([]byte(secret), "boomerang cookie store")
		if err != nil {
			return nil, nil, err
		}
		enc, err := boomerang.AES(key)
		if err != nil {
			return nil, nil, err
		}
		return cookie.New(enc), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.store)
	}
}
