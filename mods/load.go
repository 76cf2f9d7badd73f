package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml"
)

// ModuleFileName is the name of the module file within a module directory.
const ModuleFileName = "vela-mod.toml"

// tomlModuleFile represents the module file as it is encoded in TOML.
type tomlModuleFile struct {
	Module *tomlModule `toml:"module"`
}

// tomlModule represents a Vela module as it is encoded in TOML.
type tomlModule struct {
	Name          string         `toml:"name"`
	ShouldCache   bool           `toml:"caching"`
	Version       string         `toml:"vela-version"`
	BuildProfiles []*tomlProfile `toml:"profiles"`
}

// tomlProfile represents a build profile as it is encoded in TOML.
type tomlProfile struct {
	Name        string `toml:"name"`
	TargetOS    string `toml:"target-os"`
	TargetArch  string `toml:"target-arch"`
	Debug       bool   `toml:"debug"`
	OutputPath  string `toml:"output"`
	DefaultProf bool   `toml:"default"`
}

// LoadModule loads and validates a module.  path is the path to the module
// directory.  selectedProfile may be empty, in which case the default profile
// is chosen; if the module declares no profiles, a debug profile for the host
// platform is synthesized.
func LoadModule(path, selectedProfile string) (*VelaModule, *BuildProfile, error) {
	fpath := filepath.Join(path, ModuleFileName)

	f, err := os.Open(fpath)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open module file at `%s`: %w", fpath, err)
	}
	defer f.Close()

	tomlMod := &tomlModuleFile{}
	if err := toml.NewDecoder(f).Decode(tomlMod); err != nil {
		return nil, nil, fmt.Errorf("error parsing module file: %w", err)
	}

	if tomlMod.Module == nil {
		return nil, nil, errors.New("missing required table `module`")
	}

	if tomlMod.Module.Name == "" {
		return nil, nil, errors.New("missing required field `module.name`")
	}

	mod := &VelaModule{
		Name:        tomlMod.Module.Name,
		ModuleRoot:  path,
		ShouldCache: tomlMod.Module.ShouldCache,
		Version:     tomlMod.Module.Version,
		Profiles:    make(map[string]*BuildProfile),
	}

	for _, tprof := range tomlMod.Module.BuildProfiles {
		if tprof.Name == "" {
			return nil, nil, errors.New("profiles must be named")
		}

		if _, ok := mod.Profiles[tprof.Name]; ok {
			return nil, nil, fmt.Errorf("multiple profiles named `%s`", tprof.Name)
		}

		mod.Profiles[tprof.Name] = &BuildProfile{
			Name:       tprof.Name,
			TargetOS:   tprof.TargetOS,
			TargetArch: tprof.TargetArch,
			Debug:      tprof.Debug,
			OutputPath: tprof.OutputPath,
		}
	}

	prof, err := selectProfile(mod, tomlMod.Module.BuildProfiles, selectedProfile)
	if err != nil {
		return nil, nil, err
	}

	return mod, prof, nil
}

// selectProfile picks the build profile to use: the explicitly selected one,
// the declared default, or a synthesized host-platform debug profile.
func selectProfile(mod *VelaModule, tprofs []*tomlProfile, selected string) (*BuildProfile, error) {
	if selected != "" {
		if prof, ok := mod.Profiles[selected]; ok {
			return prof, nil
		}

		return nil, fmt.Errorf("no profile named `%s`", selected)
	}

	for _, tprof := range tprofs {
		if tprof.DefaultProf {
			return mod.Profiles[tprof.Name], nil
		}
	}

	return &BuildProfile{
		Name:       "debug",
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Debug:      true,
	}, nil
}
