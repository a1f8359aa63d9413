package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/config"
	"github.com/lytortech/vendoradmin/internal/app"
	"github.com/lytortech/vendoradmin/internal/webui"
)

var (
	h bool
	x bool
	c string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&x, "x", false, "debug mode")
	flag.StringVar(&c, "c", "vendoradmin.yml", "config file")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(c)
	if x {
		cfg.System.Debug = true
		cfg.Logger.Mode = "development"
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	server := webui.NewWebServer(application)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		zap.S().Infof("received signal %s, shutting down", sig)
		application.Release()
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		zap.S().Errorf("web server stopped: %v", err)
		os.Exit(1)
	}
}
