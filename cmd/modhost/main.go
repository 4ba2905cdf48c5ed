// Command modhost loads the modules of a module directory and an explicit
// library list, runs their initialization and teardown passes, and lists
// what was loaded.
//
// Usage:
//
//	modhost [-config host.yaml] [-dir path] [-libs a.so,b.so] [-runtime native|wasm]
//	modhost -print-schema
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/reglet-dev/reglet-modhost/infrastructure/environment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], environment.NewOS(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
