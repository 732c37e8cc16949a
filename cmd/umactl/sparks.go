package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"github.com/spf13/cobra"
)

func newSparksCmd(a *app) *cobra.Command {
	sparksCmd := &cobra.Command{
		Use:   "sparks",
		Short: "Browse the spark catalog",
	}

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog sparks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter shared.Category
			if category != "" {
				parsed, err := shared.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = parsed
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			t := newTable("ID", "Name", "Category", "Description")
			shown := 0
			for _, spark := range rt.Store.Sparks() {
				if filter != shared.CategoryUnknown && spark.Category != filter {
					continue
				}
				t.Row(strconv.Itoa(spark.ID), spark.Name, spark.Category.Label(), spark.Description)
				shown++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Sparks (%d)", shown)))
			fmt.Fprintln(out, t.String())
			return nil
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "only list one category (stat, aptitude, skill, unique_skill)")

	rankingsCmd := &cobra.Command{
		Use:   "rankings",
		Short: "Show Stat and Aptitude sparks grouped by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			rankings := service.BuildSparkRankings(rt.Store.Sparks())
			out := cmd.OutOrStdout()
			printGroups(out, shared.CategoryStat.Label(), rankings.Stat)
			printGroups(out, shared.CategoryAptitude.Label(), rankings.Aptitude)
			return nil
		},
	}

	sparksCmd.AddCommand(listCmd, rankingsCmd)
	return sparksCmd
}

func printGroups(out io.Writer, title string, groups []service.SparkGroup) {
	fmt.Fprintln(out, titleStyle.Render(title))
	t := newTable("Name", "Spark IDs")
	for _, group := range groups {
		ids := make([]string, 0, len(group.Sparks))
		for _, spark := range group.Sparks {
			ids = append(ids, strconv.Itoa(spark.ID))
		}
		t.Row(group.Name, strings.Join(ids, ", "))
	}
	fmt.Fprintln(out, t.String())
}
