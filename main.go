package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alexbotov/raiaccept/internal/config"
	"github.com/alexbotov/raiaccept/internal/logging"
	"github.com/alexbotov/raiaccept/pkg/raiaccept"
)

const appName = "raiaccept"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  appName,
		Usage: "RaiAccept payment gateway client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML configuration file",
				EnvVars: []string{"RAIACCEPT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			transliterateCmd,
			phoneCmd,
			countryCmd,
			loginCmd,
			logoutCmd,
			orderCmd,
			orderDetailsCmd,
			transactionsCmd,
			transactionCmd,
			refundCmd,
			serveWebhookCmd,
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, err)
		os.Exit(1)
	}
}

// env is what the gateway commands need: configuration, a logger and a
// service built from both
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	service *raiaccept.Service
}

func setup(cctx *cli.Context) (*env, error) {
	if path := cctx.String("config"); path != "" {
		os.Setenv("RAIACCEPT_CONFIG", path)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	clientCfg, err := cfg.Gateway.ClientConfig(raiaccept.NewZapLogger(log.Named("gateway")))
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		log:     log,
		service: raiaccept.NewService(clientCfg),
	}, nil
}

// accessToken logs in with the configured credentials
func (e *env) accessToken(ctx context.Context) (string, error) {
	g := e.cfg.Gateway
	if g.Username == "" || g.Password == "" {
		return "", fmt.Errorf("RAIACCEPT_USERNAME and RAIACCEPT_PASSWORD are required")
	}
	token, err := e.service.RetrieveAccessTokenWithCredentials(ctx, g.Username, g.Password)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("login succeeded but no token was issued")
	}
	return token, nil
}
