package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/cli/config"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdGuidewords() *cli.Command {
	var guidewordCfg config.Guideword
	var asJSON bool

	flags := guidewordCfg.Flags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "json",
		Usage:       "Print the catalog as JSON",
		Destination: &asJSON,
	})

	return &cli.Command{
		Name:    "guidewords",
		Aliases: []string{"g"},
		Usage:   "Print the guideword catalog",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := guidewordCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load guideword catalog")
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"guidewords": catalog.All()}); err != nil {
					return goerr.Wrap(err, "failed to encode guidewords")
				}
				return nil
			}
			return printGuidewords(w, catalog.All())
		},
	}
}

func printGuidewords(w io.Writer, guidewords []model.Guideword) error {
	category := color.New(color.FgCyan, color.Bold)
	name := color.New(color.Bold)

	for _, group := range model.GroupGuidewords(guidewords) {
		if _, err := category.Fprintf(w, "%s\n", group.Category); err != nil {
			return goerr.Wrap(err, "failed to write guidewords")
		}
		for _, gw := range group.Guidewords {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", name.Sprint(gw.Name), gw.Description); err != nil {
				return goerr.Wrap(err, "failed to write guidewords")
			}
			if gw.Example != "" {
				if _, err := fmt.Fprintf(w, "    e.g. %s\n", gw.Example); err != nil {
					return goerr.Wrap(err, "failed to write guidewords")
				}
			}
		}
	}
	return nil
}
