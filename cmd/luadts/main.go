package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate .d.ts declarations from annotated Lua sources."`
	Check   CheckCmd   `cmd:"" help:"Verify the generated declarations are up to date, without writing files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("luadts"),
		kong.Description("Generates TypeScript declaration files from Lua annotation comments."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
