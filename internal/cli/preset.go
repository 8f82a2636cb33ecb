package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/piwi3910/ScatterBrush/internal/project"
)

func newPresetCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved brush presets",
	}
	cmd.AddCommand(newPresetListCmd(a), newPresetSaveCmd(a), newPresetDeleteCmd(a))
	return cmd
}

func (a *App) presetPath() string {
	return project.PresetPath(a.ConfigPath)
}

func (a *App) findPreset(ref string) (*model.BrushPreset, error) {
	store, err := project.LoadPresets(a.presetPath())
	if err != nil {
		return nil, err
	}
	p := store.Find(ref)
	if p == nil {
		return nil, fmt.Errorf("no preset %q", ref)
	}
	return p, nil
}

func newPresetListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(a.presetPath())
			if err != nil {
				return err
			}
			if len(store.Presets) == 0 {
				a.printf("No presets\n")
				return nil
			}
			for _, p := range store.Presets {
				a.printf("%-8s %-20s density %-5g radius %-5g %s\n",
					p.ID, a.heading(p.Name), p.Details.Density, p.Details.BrushRadius, a.faint(p.Description))
			}
			return nil
		},
	}
}

func newPresetSaveCmd(a *App) *cobra.Command {
	var from, brush, description string
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the details and filters of a brush as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.resolveCollection(from)
			if err != nil {
				return err
			}
			b := c.Primary()
			if brush != "" {
				b = c.Find(brush)
			}
			if b == nil {
				return fmt.Errorf("collection %s has no brush to save", c.Name)
			}

			path := a.presetPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			store.Put(model.NewBrushPreset(args[0], description, b))
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			a.printf("%s preset %s from %s\n", a.good("Saved"), args[0], b.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "collection id or file (default: last used)")
	cmd.Flags().StringVar(&brush, "brush", "", "brush id (default: the primary brush)")
	cmd.Flags().StringVar(&description, "description", "", "preset description")
	return cmd
}

func newPresetDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID|NAME",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.presetPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("no preset %q", args[0])
			}
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			a.printf("%s preset %s\n", a.good("Deleted"), args[0])
			return nil
		},
	}
}
