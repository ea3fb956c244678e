package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/vag-Zhao/WeMediaSpider/codec"
)

type cmdValidate struct {
	Args struct {
		Portable string `positional-arg-name:"STRING" required:"true"`
	} `positional-args:"true"`
}

func (c *cmdValidate) Execute(_ []string) error {
	if _, err := codec.Decode(c.Args.Portable); err != nil {
		fmt.Println(color.New(color.FgRed).Sprint("invalid: "), err)
		return err
	}
	fmt.Println(color.New(color.FgGreen).Sprint("valid"))
	return nil
}
