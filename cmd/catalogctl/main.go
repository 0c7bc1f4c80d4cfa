// catalogctl is a command line client of the course catalog API.
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/materias/internal/client"
	"github.com/yigit/materias/internal/pkg/logger"
)

const (
	flagAPIURL = "api-url"
	flagToken  = "token"
)

func main() {
	logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true, Output: os.Stderr})

	if err := newApp().Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("catalogctl failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "manage the course catalog from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagAPIURL,
				Usage:   "catalog API base URL",
				Value:   "http://localhost:8080/api/v1",
				EnvVars: []string{"CATALOG_API_URL"},
			},
			&cli.StringFlag{
				Name:    flagToken,
				Usage:   "bearer token returned by login",
				EnvVars: []string{"CATALOG_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			coursesCommand(),
			instructorsCommand(),
			chartsCommand(),
			timeCommand(),
		},
	}
}

// apiClient builds a client from the global flags
func apiClient(c *cli.Context) *client.Client {
	api := client.New(c.String(flagAPIURL), client.DefaultHTTPClient())
	api.SetToken(c.String(flagToken))
	return api
}
