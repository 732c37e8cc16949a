package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/latoulicious/umaroster/internal/commands"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"github.com/spf13/cobra"
)

func newRosterCmd(a *app) *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "List, inspect and edit roster records",
	}

	var favouritesOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the roster, favourites first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			t := newTable("ID", "Name", "Fav", "Sparks", "Inspirations")
			shown := 0
			for _, entry := range rt.Store.Roster() {
				if favouritesOnly && !entry.IsFavourite {
					continue
				}
				fav := ""
				if entry.IsFavourite {
					fav = favStyle.Render("★")
				}
				t.Row(
					strconv.Itoa(entry.ID),
					entry.Name,
					fav,
					strconv.Itoa(len(entry.Sparks)),
					joinInts(entry.Inspirations()),
				)
				shown++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Roster (%d)", shown)))
			fmt.Fprintln(out, t.String())
			return nil
		},
	}
	listCmd.Flags().BoolVar(&favouritesOnly, "favourites", false, "only list favourites")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record with its sparks and inspirations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := commands.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			entry, ok := rt.Store.Umamusume(id)
			if !ok {
				return fmt.Errorf("umamusume %d: %w", id, shared.ErrUnknownUmamusume)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(entry.Name))
			fmt.Fprintln(out, field("ID", strconv.Itoa(entry.ID)))
			fmt.Fprintln(out, field("Favourite", strconv.FormatBool(entry.IsFavourite)))

			sparkByID := rt.Store.SparkByID()
			t := newTable("Spark", "Name", "Category", "Rarity")
			for _, ref := range entry.Sparks {
				spark, known := sparkByID[ref.SparkID]
				name, category := "?", "Unknown"
				if known {
					name, category = spark.Name, spark.Category.Label()
				}
				t.Row(strconv.Itoa(ref.SparkID), name, category, strings.Repeat("★", ref.Rarity))
			}
			fmt.Fprintln(out, t.String())

			umamusumeByID := rt.Store.UmamusumeByID()
			for i, inspirationID := range entry.Inspirations() {
				name := "(missing)"
				if parent, ok := umamusumeByID[inspirationID]; ok {
					name = parent.Name
				}
				fmt.Fprintln(out, field(fmt.Sprintf("Inspiration %d", i+1), fmt.Sprintf("%s #%d", name, inspirationID)))
			}
			return nil
		},
	}

	favCmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a favourite and persist it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := commands.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}
			if _, ok := rt.Store.Umamusume(id); !ok {
				return fmt.Errorf("umamusume %d: %w", id, shared.ErrUnknownUmamusume)
			}

			if err := rt.Store.ToggleFavourite(ctx, id); err != nil {
				return err
			}

			entry, _ := rt.Store.Umamusume(id)
			state := "removed from"
			if entry.IsFavourite {
				state = "added to"
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("%s #%d %s favourites", entry.Name, entry.ID, state)))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete records from the loaded roster",
		Long: `Delete records from the loaded roster.

At least 3 records must remain. Deleted favourites are removed from the
favourites backend; the records themselves come back on the next load.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := commands.ParseIDs(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			if err := rt.Store.Delete(ctx, ids); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
				fmt.Sprintf("deleted %s, %d records remain", joinInts(ids), rt.Store.Count())))
			return nil
		},
	}

	rosterCmd.AddCommand(listCmd, showCmd, favCmd, deleteCmd)
	return rosterCmd
}

func joinInts(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ", ")
}
