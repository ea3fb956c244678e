package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vag-Zhao/WeMediaSpider/codec"
	"github.com/vag-Zhao/WeMediaSpider/config"
	"github.com/vag-Zhao/WeMediaSpider/models"
	"github.com/vag-Zhao/WeMediaSpider/sessionstore"
)

type cmdEncode struct {
	File string `long:"file" description:"Session JSON file to encode; defaults to the persisted session"`
}

func (c *cmdEncode) Execute(_ []string) error {
	cfg := config.Load()
	initLogger(cfg.Log)

	session, err := c.loadSession(cfg)
	if err != nil {
		return err
	}

	portable, err := codec.Encode(session)
	if err != nil {
		return err
	}

	fmt.Println(portable)
	return nil
}

func (c *cmdEncode) loadSession(cfg *config.Config) (*models.Session, error) {
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return nil, err
		}
		var s models.Session
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, models.NewDecodeError("parse session file", err)
		}
		return &s, nil
	}

	store := sessionstore.New(ttlFromConfig(cfg))
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.NewSessionMissingError("no persisted session found")
	}
	return session, nil
}
