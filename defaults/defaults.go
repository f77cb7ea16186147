package defaults

import (
	"os"

	humanize "github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	"github.com/sahib/config"
)

// CurrentVersion is the current version of zftp's config
const CurrentVersion = 0

// Defaults is the default validation for zftp
var Defaults = DefaultsV0

// OpenMigratedConfig takes the config.yml at path and loads it.
// If required, it also migrates the config structure to the newest
// version - zftp can always rely on the latest config keys to be present.
// A missing file yields a config with only default values.
func OpenMigratedConfig(path string) (*config.Config, error) {
	fd, err := os.Open(path)
	if os.IsNotExist(err) {
		return config.Open(nil, Defaults, config.StrictnessPanic)
	}

	if err != nil {
		return nil, e.Wrap(err, "failed to open config")
	}

	defer fd.Close()

	// Add here any migrations with mgr.Add if needed.
	mgr := config.NewMigrater(CurrentVersion, config.StrictnessPanic)
	mgr.Add(0, nil, DefaultsV0)

	cfg, err := mgr.Migrate(config.NewYamlDecoder(fd))
	if err != nil {
		return nil, e.Wrap(err, "failed to migrate")
	}

	return cfg, nil
}

// MaxRate returns transfer.max_rate in bytes per second.
func MaxRate(cfg *config.Config) int64 {
	// The validator made sure this parses.
	rate, err := humanize.ParseBytes(cfg.String("transfer.max_rate"))
	if err != nil {
		return 0
	}

	return int64(rate)
}
