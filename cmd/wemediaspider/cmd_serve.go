package main

import (
	"fmt"

	"github.com/vag-Zhao/WeMediaSpider/config"
	"github.com/vag-Zhao/WeMediaSpider/server"
)

type cmdServe struct {
	Addr string `long:"addr" description:"Listen address; overrides config host:port"`
}

func (c *cmdServe) Execute(_ []string) error {
	cfg := config.Load()
	initLogger(cfg.Log)

	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	s := server.New()
	fmt.Printf("observability server listening on %s\n", addr)
	return s.Router(cfg.Server.Mode).Run(addr)
}
