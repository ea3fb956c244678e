package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/codec"
	"github.com/vag-Zhao/WeMediaSpider/config"
	"github.com/vag-Zhao/WeMediaSpider/sessionstore"
)

type cmdDecode struct {
	Args struct {
		Portable string `positional-arg-name:"STRING" required:"true"`
	} `positional-args:"true"`
	Output   string `long:"output" description:"Write the session as JSON to this path instead of the persisted store"`
	NoBackup bool   `long:"no-backup" description:"Skip backing up any existing persisted session"`
}

func (c *cmdDecode) Execute(_ []string) error {
	cfg := config.Load()
	initLogger(cfg.Log)

	session, err := codec.Decode(c.Args.Portable)
	if err != nil {
		return err
	}

	if c.Output != "" {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Output, data, 0o600); err != nil {
			return err
		}
		fmt.Printf("wrote session to %s\n", c.Output)
		return nil
	}

	store := sessionstore.New(ttlFromConfig(cfg))
	if c.NoBackup {
		err = store.Save(session)
	} else {
		err = store.Import(session)
	}
	if err != nil {
		return err
	}

	fmt.Printf("session for captured_at=%s persisted\n", time.Unix(session.CapturedAt, 0).Local())
	return nil
}
