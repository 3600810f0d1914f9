// cifatom reads the atom_site table of mmcif files.
// Run "cifatom help" for the commands.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrew-torda/cifatom/pkg/cifatom"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cifatom.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
