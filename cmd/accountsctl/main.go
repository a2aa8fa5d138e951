// Package main is accountsctl, the operator CLI for the accounts service. It
// applies the postgres schema and runs account commands and queries through
// the same dispatcher the HTTP service uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code. Failures are
// printed to stderr prefixed with their taxonomy kind.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", failureKind(err), err)
		return 1
	}
	return 0
}

func failureKind(err error) string {
	if kind, ok := domain.KindOf(err); ok {
		return kind.String()
	}
	return "ERROR"
}
