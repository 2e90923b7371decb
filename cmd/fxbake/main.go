// Package main bakes a particle effect into a skeletal animation archive.
//
// Usage:
//
//	go run ./cmd/fxbake [flags]
//
// Flags:
//
//	--config <file>        Settings YAML (defaults are used when omitted)
//	--preset <name>        Load settings from a saved preset instead of --config
//	--save-preset <name>   Save the effective settings as a preset
//	--list-presets         Print saved preset names and exit
//	--seed <n>             Override the random seed (0 = seed from time)
//	--out <file>           Archive path (default <name>.zip)
//	--name <name>          Base name of the archive entries (default "particle")
//	--clip <name>          Animation clip name (default "animation")
//	--write-defaults <f>   Write the default settings YAML to a file and exit
//	--inspect <file>       Summarize an exported animation JSON and exit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/decker502/fxbake/internal/particle"
	"github.com/decker502/fxbake/internal/skeleton"
	"github.com/decker502/fxbake/pkg/config"
	"github.com/decker502/fxbake/pkg/export"
	"github.com/decker502/fxbake/pkg/preset"
)

var (
	configFlag        = flag.String("config", "", "Settings YAML file")
	presetFlag        = flag.String("preset", "", "Load settings from a saved preset")
	savePresetFlag    = flag.String("save-preset", "", "Save the effective settings as a preset")
	listPresetsFlag   = flag.Bool("list-presets", false, "List saved presets and exit")
	seedFlag          = flag.Int64("seed", 0, "Random seed override (0 = seed from time)")
	outFlag           = flag.String("out", "", "Output archive path (default <name>.zip)")
	nameFlag          = flag.String("name", export.DefaultName, "Base name of archive entries")
	clipFlag          = flag.String("clip", skeleton.DefaultClip, "Animation clip name")
	writeDefaultsFlag = flag.String("write-defaults", "", "Write default settings YAML to this file and exit")
	inspectFlag       = flag.String("inspect", "", "Summarize an exported animation JSON and exit")
	verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fxbake:", err)
		os.Exit(1)
	}
}

func run() error {
	if *writeDefaultsFlag != "" {
		if err := config.SaveSettings(*writeDefaultsFlag, particle.DefaultSettings()); err != nil {
			return err
		}
		fmt.Printf("Wrote default settings to %s\n", *writeDefaultsFlag)
		return nil
	}

	if *inspectFlag != "" {
		return inspect(*inspectFlag)
	}

	var store *preset.Store
	if *presetFlag != "" || *savePresetFlag != "" || *listPresetsFlag {
		store = preset.Open(preset.AppName)
	}

	if *listPresetsFlag {
		for _, name := range store.List() {
			fmt.Println(name)
		}
		return nil
	}

	settings, err := loadSettings(store)
	if err != nil {
		return err
	}

	// 仅在显式传入 --seed 时覆盖
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			settings.Seed = *seedFlag
		}
	})

	if *savePresetFlag != "" {
		if err := store.Save(*savePresetFlag, settings); err != nil {
			return err
		}
		if !store.Persistent() {
			fmt.Fprintln(os.Stderr, "fxbake: warning: preset storage unavailable, preset not persisted")
		}
	}

	res, err := export.Run(settings, export.Options{
		Name: *nameFlag,
		Clip: *clipFlag,
	})
	if err != nil {
		return err
	}

	out := *outFlag
	if out == "" {
		out = *nameFlag + ".zip"
	}
	if err := res.WriteFile(out); err != nil {
		return err
	}

	fmt.Printf("%s: %d frames, %d particles, %d bytes (seed %d)\n",
		out, res.Frames, res.Bones, len(res.Archive), res.Seed)
	return nil
}

func loadSettings(store *preset.Store) (particle.ParticleSettings, error) {
	switch {
	case *presetFlag != "" && *configFlag != "":
		return particle.ParticleSettings{}, fmt.Errorf("--config and --preset are mutually exclusive")
	case *presetFlag != "":
		return store.Load(*presetFlag)
	case *configFlag != "":
		return config.LoadSettings(*configFlag)
	default:
		log.Printf("[fxbake] No --config given, using default settings")
		s := particle.DefaultSettings()
		config.Normalize(&s)
		return s, nil
	}
}

func inspect(path string) error {
	doc, err := skeleton.ParseDocumentFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s  hash: %s\n", doc.Skeleton.Version, doc.Skeleton.Hash)
	fmt.Printf("size: %gx%g\n", doc.Skeleton.Width, doc.Skeleton.Height)
	fmt.Printf("bones: %d  slots: %d\n", len(doc.Bones), len(doc.Slots))

	clips := make([]string, 0, len(doc.Animations))
	for name := range doc.Animations {
		clips = append(clips, name)
	}
	sort.Strings(clips)

	for _, name := range clips {
		anim := doc.Animations[name]
		var translate, rotate, scale, attachment int
		end := 0.0
		for _, tl := range anim.Bones {
			translate += len(tl.Translate)
			rotate += len(tl.Rotate)
			scale += len(tl.Scale)
			for _, k := range tl.Translate {
				end = max(end, k.Time)
			}
		}
		for _, tl := range anim.Slots {
			attachment += len(tl.Attachment)
		}
		fmt.Printf("clip %q: %.3fs, keys translate=%d rotate=%d scale=%d attachment=%d\n",
			name, end, translate, rotate, scale, attachment)
	}
	return nil
}
