package sync

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/errors"
)

// Mode selects which directions a run copies in.
type Mode int

const (
	// ModeSync copies origin to linked, and then linked to origin. Whichever
	// side was modified last wins.
	ModeSync Mode = iota

	// ModePull copies origin to linked.
	ModePull

	// ModePush copies linked to origin.
	ModePush
)

func (m Mode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModePull:
		return "pull"
	case ModePush:
		return "push"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Result contains the number of files copied for a config.
type Result struct {
	Name string

	// Pulled is the number of files copied from origin to linked.
	Pulled int

	// Pushed is the number of files copied from linked to origin.
	Pushed int
}

// Changed returns whether any files were copied.
func (r Result) Changed() bool {
	return r.Pulled != 0 || r.Pushed != 0
}

// LinkedPath returns the directory that mirrors the config named `name`.
func LinkedPath(outputRoot, name string) string {
	return filepath.Join(outputRoot, name)
}

// Run syncs each config in order. `force` is ignored in ModeSync since
// forcing both directions would just make the second pass overwrite the
// first.
//
// Run stops at the first config that fails. The results for the configs
// before it are returned along with the error, and their files stay copied.
func (e Engine) Run(configs []config.Config, outputRoot string, mode Mode, force bool) ([]Result, error) {
	var results []Result
	for _, cfg := range configs {
		result, err := e.runOne(cfg, outputRoot, mode, force)
		if err != nil {
			return results, errors.WithContext(err, fmt.Sprintf("%s %s", mode, cfg.Name))
		}

		log.WithFields(log.Fields{
			"config": cfg.Name,
			"pulled": result.Pulled,
			"pushed": result.Pushed,
		}).Debug("Finished config")
		results = append(results, result)
	}
	return results, nil
}

func (e Engine) runOne(cfg config.Config, outputRoot string, mode Mode, force bool) (result Result, err error) {
	result.Name = cfg.Name
	origin := cfg.BasePath
	linked := LinkedPath(outputRoot, cfg.Name)

	pull := func(force bool) (int, error) {
		return e.Sync(origin, linked, cfg.IncludeGlob, cfg.ExcludeGlob, force)
	}
	push := func(force bool) (int, error) {
		return e.Sync(linked, origin, cfg.IncludeGlob, cfg.ExcludeGlob, force)
	}

	switch mode {
	case ModePull:
		result.Pulled, err = pull(force)
	case ModePush:
		result.Pushed, err = push(force)
	case ModeSync:
		// The pull has to finish first so that files it just copied have
		// equal modification times on both sides, and aren't pushed back.
		if result.Pulled, err = pull(false); err != nil {
			return result, errors.WithContext(err, "pull")
		}
		if result.Pushed, err = push(false); err != nil {
			return result, errors.WithContext(err, "push")
		}
	default:
		err = errors.New("unknown mode %s", mode)
	}
	return result, err
}
