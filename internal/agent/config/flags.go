package config

import (
	"flag"
	"os"

	"github.com/openfield/fieldsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the processing backend (default from Config)
//	-d string   SQLite database path
//	-k string   archive signing key
//	-r int      upload retry count
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBase, "a", cfg.ServerBase, "base URL of the processing backend")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path to the local SQLite database")
	fs.StringVar(&cfg.SigningKey, "k", cfg.SigningKey, "archive signing key")
	fs.IntVar(&cfg.UploadRetries, "r", cfg.UploadRetries, "upload retry count")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
