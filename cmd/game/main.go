package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/backdrop/internal/config"
	"github.com/tomz197/backdrop/internal/loop/client"
)

func main() {
	envErr := config.LoadDotEnv()
	logger := config.NewLogger("backdrop")
	if envErr != nil {
		logger.Warn("env file ignored", "err", envErr)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		World:  config.WorldOptions(),
		Logger: logger,
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "backdrop error: %v\n", err)
		os.Exit(1)
	}
}
