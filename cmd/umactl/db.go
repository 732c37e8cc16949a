package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/latoulicious/umaroster/pkg/database"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("favourites backend is not a SQL database")

func newDBCmd(a *app) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the favourites database",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run connectivity, schema and transaction checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			if rt.DB == nil {
				return errNoDatabase
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			report, err := database.Check(ctx, rt.DB.DB())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Database Check"))
			fmt.Fprintln(out, field("Dialect", report.Dialect))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
				return err
			}

			fmt.Fprintln(out, field("Version", report.Version))
			fmt.Fprintln(out, field("Ping", report.PingLatency.String()))
			fmt.Fprintln(out, field("Query", report.QueryLatency.String()))
			fmt.Fprintln(out, field("Connections", fmt.Sprintf("%d open, %d in use, %d idle",
				report.OpenConnections, report.InUse, report.Idle)))
			fmt.Fprintln(out, field("Favourites", strconv.FormatInt(report.FavouriteCount, 10)))
			fmt.Fprintln(out, field("Logs", strconv.FormatInt(report.LogCount, 10)))
			fmt.Fprintln(out, field("Transactions", strconv.FormatBool(report.Transactional)))

			if report.Slow() {
				fmt.Fprintln(out, warnStyle.Render("warning: simple query exceeded "+database.SlowQueryThreshold.String()))
			}
			if len(report.MissingTables) > 0 {
				msg := "missing tables: " + strings.Join(report.MissingTables, ", ")
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(msg+" (run the migration command)"))
				return errors.New(msg)
			}

			fmt.Fprintln(out, successStyle.Render("database healthy"))
			return nil
		},
	}

	dbCmd.AddCommand(checkCmd)
	return dbCmd
}
