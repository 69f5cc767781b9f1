// goatctl es el cliente de línea de comandos de la API de registros.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"livestock-records/internal/platform/config"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)

	cfg, err := config.LoadClient()
	if err != nil {
		a.fail(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newRootCmd(a, cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		a.fail(err)
		os.Exit(1)
	}
}
