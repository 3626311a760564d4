package radio

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/crsflink/pkg/cli/sh"
	"github.com/robotalks/crsflink/pkg/crsf"
)

var helps = map[string]string{
	crsf.CmdBind:          "put the receiver into bind mode",
	crsf.CmdDiscover:      "ping devices on the link",
	crsf.CmdPollLinkStats: "request link statistics now",
	crsf.CmdPowerUp:       "raise TX power one step",
	crsf.CmdPowerDown:     "lower TX power one step",
	crsf.CmdNextModel:     "select the next model",
	crsf.CmdReboot:        "reboot the transmitter module",
}

// Cmd sends a command frame by name.
var Cmd = ishell.Cmd{
	Name: "cmd",
	Help: "NAME, one of " + strings.Join(crsf.CommandNames(), ", "),
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("expect one of %s", strings.Join(crsf.CommandNames(), ", ")))
			return
		}
		sh.Result(c, sh.ShellFrom(c).Engine.Do(c.Args[0]))
	},
}

// CommandCmd builds the ishell command sending the named command frame.
func CommandCmd(name string) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: helps[name],
		Func: func(c *ishell.Context) {
			sh.Result(c, sh.ShellFrom(c).Engine.Do(name))
		},
	}
}

func init() {
	cmds := []*ishell.Cmd{&Cmd}
	for _, name := range crsf.CommandNames() {
		cmds = append(cmds, CommandCmd(name))
	}
	sh.AddCmds(cmds...)
}
