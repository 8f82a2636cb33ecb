package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ScatterBrush/internal/engine"
	"github.com/piwi3910/ScatterBrush/internal/export"
	"github.com/piwi3910/ScatterBrush/internal/history"
	"github.com/piwi3910/ScatterBrush/internal/importer"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/piwi3910/ScatterBrush/internal/project"
	"github.com/piwi3910/ScatterBrush/internal/scene"
)

type paintOptions struct {
	collection string
	scene      string
	strokes    string
	plan       string
	height     float32
	brushes    []string
	seed       int64
	noErase    bool
	undo       int
	discard    bool
	apply      bool
	saveScene  string
	pdf        string
	dxf        string
	xlsx       string
}

// StrokeFile is the on-disk form of a recorded painting session.
type StrokeFile struct {
	Events []engine.PointerEvent `json:"events" yaml:"events"`
}

func newPaintCmd(a *App) *cobra.Command {
	var opts paintOptions
	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Replay pointer strokes over a scene with a brush collection",
		Long: `Replay pointer strokes over a scene with a brush collection.

Strokes come from a JSON or YAML file of pointer events (--strokes) or
are traced from the points, lines and polylines of a DXF plan (--plan).
Spawned instances stay uncommitted unless --apply is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// run-only overrides; the stored config keeps its settings
			settings := a.Config.Paint
			if cmd.Flags().Changed("seed") {
				settings.Seed = opts.seed
			}
			if opts.noErase {
				settings.ErasingEnabled = false
			}
			return a.paint(opts, settings)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.collection, "collection", "", "collection id or file (default: last used)")
	f.StringVar(&opts.scene, "scene", "", "scene description file (JSON or YAML)")
	f.StringVar(&opts.strokes, "strokes", "", "pointer event file (JSON or YAML)")
	f.StringVar(&opts.plan, "plan", "", "DXF plan to trace as strokes")
	f.Float32Var(&opts.height, "height", 100, "height rays of a --plan are cast from")
	f.StringSliceVar(&opts.brushes, "brush", nil, "brush ids to paint with (default: all)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.BoolVar(&opts.noErase, "no-erase", false, "ignore remove-button events")
	f.IntVar(&opts.undo, "undo", 0, "undo the last N strokes after replaying")
	f.BoolVar(&opts.discard, "discard", false, "delete everything spawned after writing reports")
	f.BoolVar(&opts.apply, "apply", false, "commit spawned instances")
	f.StringVar(&opts.saveScene, "save-scene", "", "write the resulting scene to this file")
	f.StringVar(&opts.pdf, "pdf", "", "write a PDF plan")
	f.StringVar(&opts.dxf, "dxf", "", "write a DXF plan")
	f.StringVar(&opts.xlsx, "xlsx", "", "write an Excel placement list")
	_ = cmd.MarkFlagRequired("scene")
	cmd.MarkFlagsMutuallyExclusive("strokes", "plan")
	cmd.MarkFlagsOneRequired("strokes", "plan")
	cmd.MarkFlagsMutuallyExclusive("apply", "discard")
	return cmd
}

// loadEvents reads the pointer events of a run.
func (a *App) loadEvents(opts paintOptions) ([]engine.PointerEvent, error) {
	if opts.plan != "" {
		result := importer.ImportStrokesDXF(opts.plan, opts.height)
		for _, w := range result.Warnings {
			a.Log.Warn(w, "plan", opts.plan)
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("cannot trace %s: %s", opts.plan, strings.Join(result.Errors, "; "))
		}
		a.Log.Info("plan traced", "strokes", result.Strokes, "events", len(result.Events))
		return result.Events, nil
	}
	var sf StrokeFile
	if err := project.ReadFile(opts.strokes, &sf); err != nil {
		return nil, err
	}
	return sf.Events, nil
}

// selectBrushes selects the brushes named by ids, the first one primary, or
// every brush when ids is empty.
func selectBrushes(c *model.BrushCollection, ids []string) error {
	if len(ids) == 0 {
		c.SelectAll()
		return nil
	}
	for _, id := range ids {
		if c.Find(id) == nil {
			return fmt.Errorf("collection %s has no brush %s", c.Name, id)
		}
	}
	c.RestoreSelection(ids[0], ids)
	return nil
}

func (a *App) paint(opts paintOptions, settings model.PaintSettings) error {
	world, err := scene.LoadWorld(opts.scene)
	if err != nil {
		return err
	}
	coll, collPath, err := a.resolveCollection(opts.collection)
	if err != nil {
		return err
	}
	if err := selectBrushes(coll, opts.brushes); err != nil {
		return err
	}
	events, err := a.loadEvents(opts)
	if err != nil {
		return err
	}

	journal := history.NewCreationLog()
	eng := engine.New(settings, world, world,
		engine.WithUndo(journal),
		engine.WithLogger(a.Log),
	)
	session := engine.NewSession(eng, coll)
	session.Journal = journal

	a.Log.Info("painting", "collection", collPath, "brushes", coll.SelectedNames(), "events", len(events))
	changed := 0
	for _, ev := range events {
		if session.HandleEvent(ev) {
			changed++
		}
	}
	undone := 0
	for i := 0; i < opts.undo; i++ {
		undone += session.UndoLastStroke()
	}

	report := export.Report{
		CollectionID:   coll.ID,
		CollectionName: coll.Name,
		Scene:          world.Name,
		Placements:     export.CollectPlacements(world, coll),
		Stats:          eng.Stats(),
	}
	if err := a.writeReports(report, opts); err != nil {
		return err
	}

	switch {
	case opts.apply:
		session.ApplyCached()
	case opts.discard:
		n := session.DeleteSpawned()
		a.Log.Info("discarded spawned instances", "count", n)
	}

	if opts.saveScene != "" {
		if err := scene.SaveWorld(opts.saveScene, world); err != nil {
			return err
		}
	}
	a.saveConfig()

	a.printSummary(report, changed, undone, opts)
	return nil
}

func (a *App) writeReports(report export.Report, opts paintOptions) error {
	targets := []struct {
		path  string
		write func(string) error
	}{
		{opts.pdf, func(p string) error { return export.ExportPDF(p, report) }},
		{opts.dxf, func(p string) error { return export.ExportDXF(p, report.Placements) }},
		{opts.xlsx, func(p string) error { return export.ExportXLSX(p, report.Placements) }},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if len(report.Placements) == 0 {
			a.Log.Warn("nothing spawned, report skipped", "path", t.path)
			continue
		}
		if err := t.write(t.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.path, err)
		}
		a.Log.Info("report written", "path", t.path)
	}
	return nil
}

func (a *App) printSummary(report export.Report, changed, undone int, opts paintOptions) {
	st := report.Stats
	a.printf("%s %s on %s\n", a.heading("Painted"), report.CollectionName, report.Scene)
	a.printf("  %s  %d placed, %d removed, %d events changed the scene\n",
		a.good(fmt.Sprintf("%4d instances", len(report.Placements))), st.Placed, st.Removed, changed)
	if undone > 0 {
		a.printf("  %d undone\n", undone)
	}
	if r := st.Rejected(); r > 0 || st.Misses > 0 {
		a.printf("  %s\n", a.warn(fmt.Sprintf("%d attempts: %d rejected, %d missed", st.Attempts, r, st.Misses)))
	}
	for _, c := range export.CountByTemplate(report.Placements) {
		a.printf("  %-20s %d\n", c.Name, c.Count)
	}
	switch {
	case opts.apply:
		a.printf("  %s\n", a.good("committed"))
	case opts.discard:
		a.printf("  %s\n", a.faint("discarded"))
	}
}
