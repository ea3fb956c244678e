package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

func main() {
	parser := flags.NewParser(nil, flags.HelpFlag|flags.PassDoubleDash)

	addCmd(parser, "encode", "Encode a session file into a portable string", `
Reads a session.json file (or the currently persisted session) and
prints its "WC01..." portable credential string to stdout.
`, &cmdEncode{})

	addCmd(parser, "decode", "Decode a portable string into a session file", `
Decodes a "WC01..." portable credential string and writes it as the
persisted session, backing up any prior session first.
`, &cmdDecode{})

	addCmd(parser, "validate", "Check a portable string's checksum", `
Decodes a "WC01..." portable credential string far enough to verify
its version prefix and CRC32 checksum, without persisting anything.
`, &cmdValidate{})

	addCmd(parser, "scrape", "Run a batch scrape over one or more publishers", `
Looks up each publisher, enumerates posts in the configured date
window, optionally fetches and filters bodies, and writes the merged
result set to CSV or JSON.
`, &cmdScrape{})

	addCmd(parser, "serve", "Run only the observability HTTP surface", `
Starts /healthz, /events, and /metrics without running a batch —
useful for probing the server in isolation.
`, &cmdServe{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to the process exit code spec.md
// §4.3's CLI table fixes per-subcommand: session-invalid errors exit
// 2, a cancelled batch exits 3, anything else exits 1.
func exitCodeFor(err error) int {
	var se *models.SpiderError
	if errors.As(err, &se) {
		switch se.Code {
		case models.ErrCodeSessionMissing, models.ErrCodeAuthExpired:
			return 2
		case models.ErrCodeCancelled:
			return 3
		}
	}
	return 1
}

func addCmd(to interface {
	AddCommand(string, string, string, interface{}) (*flags.Command, error)
}, name, short, long string, data interface{}) *flags.Command {
	cmd, err := to.AddCommand(name, short, long, data)
	if err != nil {
		slog.Error("failed to register subcommand", "name", name, "error", err)
		os.Exit(1)
	}
	return cmd
}
