package defaults

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/sahib/config"
)

func byteSizeValidator(val interface{}) error {
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("not a string: %v", val)
	}

	if _, err := humanize.ParseBytes(s); err != nil {
		return fmt.Errorf("not a byte size: %s", s)
	}

	return nil
}

// DefaultsV0 is the default config validation for zftp
var DefaultsV0 = config.DefaultMapping{
	"server": config.DefaultMapping{
		"port": config.DefaultEntry{
			Default:      49152,
			NeedsRestart: true,
			Docs:         "Port the server listens on. 0 picks a free one.",
			Validator:    config.IntRangeValidator(0, 65535),
		},
		"bind": config.DefaultEntry{
			Default:      "",
			NeedsRestart: true,
			Docs:         "Host to bind to. Empty means all interfaces.",
		},
		"max_connections": config.DefaultEntry{
			Default:      10,
			NeedsRestart: true,
			Docs:         "How many clients may be served at the same time.",
			Validator:    config.IntRangeValidator(1, 1024),
		},
		"root": config.DefaultEntry{
			Default:      ".",
			NeedsRestart: true,
			Docs:         "Directory relative paths of clients are resolved against.",
		},
	},
	"client": config.DefaultMapping{
		"port": config.DefaultEntry{
			Default:      49152,
			NeedsRestart: false,
			Docs:         "Port of the server to connect to.",
			Validator:    config.IntRangeValidator(1, 65535),
		},
		"assume_yes": config.DefaultEntry{
			Default:      false,
			NeedsRestart: false,
			Docs:         "Accept every GET without asking.",
		},
		"progress": config.DefaultEntry{
			Default:      true,
			NeedsRestart: false,
			Docs:         "Show progress bars for transfers (only on terminals).",
		},
		"history_file": config.DefaultEntry{
			Default:      "",
			NeedsRestart: false,
			Docs:         "Where to keep the command history of the shell. Empty disables it.",
		},
	},
	"transfer": config.DefaultMapping{
		"chunk_size": config.DefaultEntry{
			Default:      8192,
			NeedsRestart: false,
			Docs:         "Maximum bytes moved per read or write during a transfer.",
			Validator:    config.IntRangeValidator(1, 16*1024*1024),
		},
		"max_rate": config.DefaultEntry{
			Default:      "0",
			NeedsRestart: false,
			Docs:         "Bandwidth limit per direction, like »1MB« (per second). 0 is unlimited.",
			Validator:    byteSizeValidator,
		},
	},
	"log": config.DefaultMapping{
		"level": config.DefaultEntry{
			Default:      "info",
			NeedsRestart: false,
			Docs:         "Minimum level of log messages.",
			Validator: config.EnumValidator(
				"debug", "info", "warning", "error",
			),
		},
		"path": config.DefaultEntry{
			Default:      "stderr",
			NeedsRestart: true,
			Docs:         "Where to write logs to: »stderr«, »stdout« or a file path.",
		},
	},
}
