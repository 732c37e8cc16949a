package main

import (
	"fmt"
	"strings"

	"github.com/latoulicious/umaroster/internal/commands"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"github.com/spf13/cobra"
)

func newLoadoutCmd(a *app) *cobra.Command {
	loadoutCmd := &cobra.Command{
		Use:   "loadout",
		Short: "Check and apply loadouts",
	}

	var (
		forID int
		save  bool
	)
	validateCmd := &cobra.Command{
		Use:   "validate <name> | <spark:rarity,...> | <insp1,insp2>",
		Short: "Validate a loadout against the catalog",
		Example: `  umactl loadout validate "Oguri Cap | 1:3,10:2 | 4,9"
  umactl loadout validate "Oguri Cap | 1:3,10:2 | 4,9" --for 7 --save`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := commands.ParseLoadout(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if forID != 0 {
				sel.OwnerID = shared.IntPtr(forID)
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := a.loaded(ctx)
			if err = warnPartial(cmd, err); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := service.ValidateLoadout(sel, rt.Store.SparkByID())
			if !result.Valid {
				fmt.Fprintln(out, errorStyle.Render("Loadout invalid"))
				fmt.Fprintln(out, field("Rule", fmt.Sprintf("%d", result.Rule)))
				fmt.Fprintln(out, field("Reason", result.Message))
				return result.Err()
			}
			fmt.Fprintln(out, successStyle.Render("Loadout valid"))

			if !save {
				return nil
			}

			editor, err := openEditor(rt.Store, forID, sel)
			if err != nil {
				return err
			}
			if result := editor.Validate(); !result.Valid {
				return result.Err()
			}
			record, err := editor.Save()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("saved %s as #%d", record.Name, record.ID)))
			return nil
		},
	}
	validateCmd.Flags().IntVar(&forID, "for", 0, "id of the record being edited (0 for a new record)")
	validateCmd.Flags().BoolVar(&save, "save", false, "apply the loadout to the loaded roster when valid")

	loadoutCmd.AddCommand(validateCmd)
	return loadoutCmd
}

// openEditor replays a parsed loadout through an editor session the way an
// interactive client would: name, spark picker, rarities, inspiration picker.
func openEditor(store uma.RosterStoreInterface, id int, sel shared.LoadoutSelection) (*service.Editor, error) {
	mode := service.EditorEdit
	if id == 0 {
		mode = service.EditorCreate
	}
	editor, err := service.NewEditor(store, mode, id)
	if err != nil {
		return nil, err
	}

	if err := editor.SetName(sel.Name); err != nil {
		return nil, err
	}

	editor.OpenSparkPicker().Reset(sel.SparkIDs())
	if err := editor.ApplySparkPicker(); err != nil {
		return nil, err
	}
	for _, ref := range sel.Sparks {
		if err := editor.SetRarity(ref.SparkID, ref.Rarity); err != nil {
			return nil, err
		}
	}

	editor.OpenInspirationPicker().Reset(sel.InspirationIDs())
	if err := editor.ApplyInspirationPicker(); err != nil {
		return nil, err
	}
	return editor, nil
}
