// keywardd runs a keyward key management facility: the software provider
// over a local keystore, served on a unix socket, optionally exposed to
// remote facilities over gRPC.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	"keyward.io/keyward/internal/config"
	"keyward.io/keyward/keystore"
	"keyward.io/keyward/protoconv"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/provider/remote"
	"keyward.io/keyward/provider/soft"
	"keyward.io/keyward/service"
)

func main() {
	fs := flag.NewFlagSet("keywardd", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	socket := fs.String("socket", "", "unix socket to listen on (overrides config)")
	grpcListen := fs.String("listen-grpc", "", "TCP address for the remote-facility gRPC endpoint (overrides config)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *socket != "" {
		cfg.Socket = *socket
	}
	if *grpcListen != "" {
		cfg.GRPCListen = *grpcListen
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("keywardd exiting", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		var err error
		lvl, err = zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret, err := loadOrCreateSecret(cfg, log)
	if err != nil {
		return err
	}
	store, err := keystore.Open(cfg.KeystoreDir, secret)
	if err != nil {
		return err
	}

	registry := provider.NewRegistry()
	if err := registry.Register(provider.NewCore(registry)); err != nil {
		return err
	}
	if err := registry.Register(soft.New(store)); err != nil {
		return err
	}
	if cfg.RemoteTarget != "" {
		proxy, err := remote.Dial(cfg.RemoteTarget, protoconv.Converter{}, remote.DialOptions{Timeout: 5 * time.Second})
		if err != nil {
			return fmt.Errorf("dial remote facility %s: %w", cfg.RemoteTarget, err)
		}
		defer proxy.Close()
		proxy.Timeout = 30 * time.Second
		if err := registry.Register(proxy); err != nil {
			return err
		}
		log.Info("remote provider registered", zap.String("target", cfg.RemoteTarget))
	}

	svc := service.New(registry, protoconv.Converter{}, log)

	if cfg.GRPCListen != "" {
		grpcLis, err := net.Listen("tcp", cfg.GRPCListen)
		if err != nil {
			return err
		}
		grpcSrv := grpc.NewServer()
		remote.RegisterExecServer(grpcSrv, &remote.Server{Handler: svc})
		go func() {
			<-ctx.Done()
			grpcSrv.GracefulStop()
		}()
		go func() {
			if err := grpcSrv.Serve(grpcLis); err != nil {
				log.Error("grpc endpoint failed", zap.Error(err))
			}
		}()
		log.Info("remote-facility endpoint listening", zap.String("addr", grpcLis.Addr().String()))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Socket), 0o700); err != nil {
		return err
	}
	// A stale socket from an unclean shutdown blocks the bind.
	if err := os.Remove(cfg.Socket); err != nil && !os.IsNotExist(err) {
		return err
	}
	lis, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return err
	}
	defer os.Remove(cfg.Socket)
	if err := os.Chmod(cfg.Socket, 0o600); err != nil {
		return err
	}

	log.Info("keywardd listening", zap.String("socket", cfg.Socket))
	err = svc.Serve(ctx, lis)
	if ctx.Err() != nil {
		log.Info("keywardd shutting down")
		return nil
	}
	return err
}

// loadOrCreateSecret bootstraps the sealing secret on first run.
func loadOrCreateSecret(cfg *config.Config, log *zap.Logger) ([]byte, error) {
	secret, err := cfg.Secret()
	if err == nil {
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	encoded := hex.EncodeToString(raw)
	if err := os.MkdirAll(filepath.Dir(cfg.SecretFile), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(cfg.SecretFile, []byte(encoded+"\n"), 0o600); err != nil {
		return nil, err
	}
	log.Info("generated new keystore secret", zap.String("path", cfg.SecretFile))
	return []byte(encoded), nil
}
