package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/config"
	"github.com/julianstephens/autosend/internal/utils"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing policy file with the default template."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Println(render.Success("Initialized autosend storage at: " + ctx.Store.GetConfigPath()))

	if ctx.PolicyPath == "" {
		return nil
	}
	path := utils.ExpandHome(ctx.PolicyPath)
	if _, err := os.Stat(path); err == nil && !c.Force {
		ctx.Printf("Policy file already exists at: %s\n", path)
		return nil
	}
	if err := config.WriteTemplate(path, c.Force); err != nil {
		return fmt.Errorf("failed to write policy template: %w", err)
	}
	ctx.Println(render.Success("Wrote policy template to: " + path))
	return nil
}
