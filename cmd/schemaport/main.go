package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/schemaport/schemaport/pkg/cmd"
	"github.com/urfave/cli/v3"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	// Best effort: connection strings often reference env vars kept in a
	// local .env file.
	_ = godotenv.Load()

	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Fprintln(c.Writer, "Version:", version)
		fmt.Fprintln(c.Writer, "Commit:", commit)
		fmt.Fprintln(c.Writer, "Date:", date)
	}

	if err := cmd.Run(context.Background(), version, os.Args); err != nil {
		log.Fatal(err)
	}
}
