package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ScatterBrush/internal/history"
	"github.com/piwi3910/ScatterBrush/internal/importer"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/piwi3910/ScatterBrush/internal/project"
)

func newCollectionCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"coll"},
		Short:   "Manage brush collections",
	}
	cmd.AddCommand(
		newCollectionNewCmd(a),
		newCollectionListCmd(a),
		newCollectionShowCmd(a),
		newCollectionImportCmd(a),
		newCollectionEditCmd(a),
		newCollectionBackupCmd(a),
		newCollectionRestoreCmd(a),
	)
	return cmd
}

func newCollectionNewCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new [NAME]",
		Short: "Create an empty collection in the collection directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			c, path, err := project.CreateCollection(project.CollectionDir(a.Config), name)
			if err != nil {
				return err
			}
			a.Config.TouchRecent(c.ID, maxRecentCollections)
			a.saveConfig()
			a.Log.Info("collection created", "id", c.ID, "path", path)
			a.printf("%s %s %s\n", a.good("Created"), c.Name, a.faint(c.ID))
			a.printf("%s\n", path)
			return nil
		},
	}
}

func newCollectionListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := project.CollectionDir(a.Config)
			infos, err := project.ListCollections(dir)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				a.printf("No collections in %s\n", dir)
				return nil
			}
			for _, info := range infos {
				marker := " "
				if info.ID == a.Config.LastCollectionID {
					marker = "*"
				}
				a.printf("%s %-36s %-28s %3d brushes\n", marker, info.ID, a.heading(info.Name), info.Brushes)
			}
			return nil
		},
	}
}

func newCollectionShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ID|PATH]",
		Short: "Show the brushes of a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			c, path, err := a.resolveCollection(ref)
			if err != nil {
				return err
			}
			a.printCollection(c, path)
			return nil
		},
	}
}

func (a *App) printCollection(c *model.BrushCollection, path string) {
	a.printf("%s %s\n", a.heading(c.Name), a.faint(c.ID))
	a.printf("%s\n", a.faint(path))
	if len(c.Brushes) == 0 {
		a.printf("  (no brushes)\n")
		return
	}
	primary := c.Primary()
	for _, b := range c.Brushes {
		marker := " "
		switch {
		case b == primary:
			marker = "*"
		case c.IsSelected(b):
			marker = "+"
		}
		d, f := b.Details, b.Filters
		a.printf("%s %-8s %-20s density %-5g radius %-5g scale %g..%g slope %g..%g",
			marker, b.ID, b.Name(), d.Density, d.BrushRadius, d.MinScale, d.MaxScale, f.MinSlope, f.MaxSlope)
		if f.LayerMask != model.AllLayers {
			a.printf(" layers %032b", uint32(f.LayerMask))
		}
		if f.TagFilterEnabled {
			a.printf(" tag %q", f.TagFilter)
		}
		if d.AlignToSurface {
			a.printf(" align")
		}
		if d.AllowIntercollision {
			a.printf(" overlap")
		}
		if b.Parent != "" {
			a.printf(" parent %s", b.Parent)
		}
		a.printf("\n")
	}
}

func newCollectionImportCmd(a *App) *cobra.Command {
	var into, name string
	cmd := &cobra.Command{
		Use:   "import SHEET",
		Short: "Add the brushes of a CSV or Excel sheet to a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := importer.ImportFile(args[0])
			for _, w := range result.Warnings {
				a.Log.Warn(w, "sheet", args[0])
			}
			for _, e := range result.Errors {
				a.Log.Error(e, "sheet", args[0])
			}
			if len(result.Brushes) == 0 {
				return fmt.Errorf("no brushes imported from %s", args[0])
			}

			var c *model.BrushCollection
			if into != "" {
				loaded, err := project.LoadCollection(into)
				switch {
				case err == nil:
					c = loaded
				case errors.Is(err, os.ErrNotExist):
					c = model.NewBrushCollection(name)
				default:
					return err
				}
			} else {
				created, path, err := project.CreateCollection(project.CollectionDir(a.Config), name)
				if err != nil {
					return err
				}
				c, into = created, path
			}

			for _, b := range result.Brushes {
				c.Add(b)
			}
			if err := project.SaveCollection(into, c); err != nil {
				return err
			}
			a.Config.TouchRecent(c.ID, maxRecentCollections)
			a.saveConfig()

			a.printf("%s %d brushes into %s (%s)\n", a.good("Imported"), len(result.Brushes), c.Name, into)
			if n := len(result.Errors); n > 0 {
				a.printf("%s\n", a.warn(fmt.Sprintf("%d rows skipped", n)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&into, "into", "", "collection file to add to (created when missing)")
	cmd.Flags().StringVar(&name, "name", "", "name of a newly created collection")
	return cmd
}

// editOptions are the brush edits of "collection edit", applied in the
// order they are listed here.
type editOptions struct {
	selectIDs      []string
	density        float32
	radius         float32
	minScale       float32
	maxScale       float32
	minSlope       float32
	maxSlope       float32
	pasteDetails   string
	pasteFilters   string
	preset         string
	resetDetails   bool
	resetFilters   bool
	removeSelected bool
	removeAll      bool
	undo           int
}

func newCollectionEditCmd(a *App) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit ID|PATH",
		Short: "Edit the selected brushes of a collection",
		Long: `Edit the selected brushes of a collection.

Edits run in a fixed order: select, set values, paste, preset, reset,
remove. Each edit is recorded so the last --undo N of them can be rolled
back before the collection is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := a.resolveCollection(args[0])
			if err != nil {
				return err
			}
			var preset *model.BrushPreset
			if opts.preset != "" {
				if preset, err = a.findPreset(opts.preset); err != nil {
					return err
				}
			}
			applied, err := applyEdits(cmd, c, opts, preset)
			if err != nil {
				return err
			}
			for _, label := range applied {
				a.printf("%s %s\n", a.good("Edited"), label)
			}
			if err := project.SaveCollection(path, c); err != nil {
				return err
			}
			a.saveConfig()
			a.printCollection(c, path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.selectIDs, "select", nil, "brush ids to select, the first one primary")
	f.Float32Var(&opts.density, "density", 0, "set density of the selected brushes")
	f.Float32Var(&opts.radius, "radius", 0, "set brush radius of the selected brushes")
	f.Float32Var(&opts.minScale, "min-scale", 0, "set minimum scale of the selected brushes")
	f.Float32Var(&opts.maxScale, "max-scale", 0, "set maximum scale of the selected brushes")
	f.Float32Var(&opts.minSlope, "min-slope", 0, "set minimum slope of the selected brushes")
	f.Float32Var(&opts.maxSlope, "max-slope", 0, "set maximum slope of the selected brushes")
	f.StringVar(&opts.pasteDetails, "paste-details", "", "copy the details of this brush id onto the selection")
	f.StringVar(&opts.pasteFilters, "paste-filters", "", "copy the filters of this brush id onto the selection")
	f.StringVar(&opts.preset, "preset", "", "apply a saved preset (id or name) to the selection")
	f.BoolVar(&opts.resetDetails, "reset-details", false, "reset details of the selected brushes")
	f.BoolVar(&opts.resetFilters, "reset-filters", false, "reset filters of the selected brushes")
	f.BoolVar(&opts.removeSelected, "remove-selected", false, "remove the selected brushes")
	f.BoolVar(&opts.removeAll, "remove-all", false, "remove every brush")
	f.IntVar(&opts.undo, "undo", 0, "roll back the last N edits")
	return cmd
}

// applyEdits runs the requested edits against c, recording a snapshot
// before each one. It returns the labels of the edits that remain applied.
func applyEdits(cmd *cobra.Command, c *model.BrushCollection, opts editOptions, preset *model.BrushPreset) ([]string, error) {
	h := history.NewHistory()
	var labels []string
	edit := func(label string, fn func()) {
		h.Push(history.MakeSnapshot(c, label))
		fn()
		labels = append(labels, label)
	}
	eachSelected := func(fn func(b *model.BrushConfig)) func() {
		return func() {
			for _, b := range c.Selected() {
				fn(b)
			}
		}
	}

	if len(opts.selectIDs) > 0 {
		var missing []string
		for _, id := range opts.selectIDs {
			if c.Find(id) == nil {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("unknown brush ids: %s", strings.Join(missing, ", "))
		}
		edit("Select", func() { c.RestoreSelection(opts.selectIDs[0], opts.selectIDs) })
	}

	setters := []struct {
		flag  string
		label string
		value float32
		set   func(*model.BrushConfig, float32)
	}{
		{"density", "Set Density", opts.density, (*model.BrushConfig).SetDensity},
		{"radius", "Set Brush Radius", opts.radius, (*model.BrushConfig).SetBrushRadius},
		{"min-scale", "Set Min Scale", opts.minScale, (*model.BrushConfig).SetMinScale},
		{"max-scale", "Set Max Scale", opts.maxScale, (*model.BrushConfig).SetMaxScale},
		{"min-slope", "Set Min Slope", opts.minSlope, (*model.BrushConfig).SetMinSlope},
		{"max-slope", "Set Max Slope", opts.maxSlope, (*model.BrushConfig).SetMaxSlope},
	}
	for _, s := range setters {
		if !cmd.Flags().Changed(s.flag) {
			continue
		}
		s := s
		edit(s.label, eachSelected(func(b *model.BrushConfig) { s.set(b, s.value) }))
	}

	if opts.pasteDetails != "" {
		src := c.Find(opts.pasteDetails)
		if src == nil {
			return nil, fmt.Errorf("unknown brush id %s", opts.pasteDetails)
		}
		copied := *src
		edit("Paste Details", eachSelected(func(b *model.BrushConfig) { b.PasteDetails(&copied) }))
	}
	if opts.pasteFilters != "" {
		src := c.Find(opts.pasteFilters)
		if src == nil {
			return nil, fmt.Errorf("unknown brush id %s", opts.pasteFilters)
		}
		copied := *src
		edit("Paste Filters", eachSelected(func(b *model.BrushConfig) { b.PasteFilters(&copied) }))
	}
	if preset != nil {
		p := *preset
		edit("Apply Preset "+p.Name, eachSelected(p.ApplyTo))
	}
	if opts.resetDetails {
		edit("Reset Details", eachSelected((*model.BrushConfig).ResetDetails))
	}
	if opts.resetFilters {
		edit("Reset Filters", eachSelected((*model.BrushConfig).ResetFilters))
	}
	if opts.removeSelected {
		edit("Remove Selected", c.RemoveSelected)
	}
	if opts.removeAll {
		edit("Remove All", c.RemoveAll)
	}

	for i := 0; i < opts.undo; i++ {
		prev, ok := h.Undo(history.MakeSnapshot(c, ""))
		if !ok {
			break
		}
		prev.Restore(c)
		labels = labels[:len(labels)-1]
	}
	return labels, nil
}

func newCollectionBackupCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Write the config and every stored collection to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := project.ListCollections(project.CollectionDir(a.Config))
			if err != nil {
				return err
			}
			var colls []*model.BrushCollection
			for _, info := range infos {
				c, err := project.LoadCollection(info.Path)
				if err != nil {
					a.Log.Warn("skipping unreadable collection", "path", info.Path, "err", err)
					continue
				}
				colls = append(colls, c)
			}
			if err := project.ExportAllData(args[0], a.Config, colls); err != nil {
				return err
			}
			a.printf("%s %d collections to %s\n", a.good("Backed up"), len(colls), args[0])
			return nil
		},
	}
}

func newCollectionRestoreCmd(a *App) *cobra.Command {
	var withConfig bool
	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore collections from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if withConfig {
				dir := a.Config.CollectionDir
				a.Config = backup.Config
				a.Config.CollectionDir = dir
			}
			paths, err := project.RestoreCollections(project.CollectionDir(a.Config), backup)
			if err != nil {
				return err
			}
			a.saveConfig()
			a.printf("%s %d collections\n", a.good("Restored"), len(paths))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withConfig, "config-too", false, "also restore the saved settings")
	return cmd
}
