package sh

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/fatih/color"

	"github.com/robotalks/crsflink/pkg/link"
)

// Shell provides ishell backed interactive shell driving an Engine.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Engine *link.Engine
}

const shellKey = "$shell"

var (
	commands = []*ishell.Cmd{
		&StatusCmd,
		&ArmCmd,
		&DisarmCmd,
		&AxesCmd,
		&EmergencyStopCmd,
		&OverrideCmd,
		&TxCmd,
		&RxCmd,
	}

	armedColor    = color.New(color.FgRed, color.Bold)
	disarmedColor = color.New(color.FgGreen)
	linkOKColor   = color.New(color.FgGreen)
	linkDownColor = color.New(color.FgYellow)
)

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(e *link.Engine) *Shell {
	s := &Shell{
		Interactive: true,
		Shell:       ishell.New(),
		Engine:      e,
	}
	s.Shell.Set(shellKey, s)
	s.updatePrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Prompt renders the prompt from engine state.
func Prompt(e *link.Engine) string {
	var tags []string
	if e.IsArmed() {
		tags = append(tags, "ARMED")
	}
	if !e.IsLinkOK() {
		tags = append(tags, "nolink")
	}
	if e.State.SafetyOverride() {
		tags = append(tags, "override")
	}
	if len(tags) == 0 {
		return "crsf > "
	}
	return "crsf[" + strings.Join(tags, ",") + "] > "
}

func (s *Shell) updatePrompt() {
	s.Shell.SetPrompt(Prompt(s.Engine))
}

// Reply prints v as JSON in JSON mode, otherwise text.
func Reply(c *ishell.Context, v interface{}, text string) {
	s := ShellFrom(c)
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// Result reports the result of an engine call and refreshes the prompt.
func Result(c *ishell.Context, err error) {
	s := ShellFrom(c)
	s.updatePrompt()
	if err != nil {
		c.Err(err)
		return
	}
	Reply(c, map[string]bool{"ok": true}, "OK")
}

// FormatStatus renders engine status for display.
func FormatStatus(st Status) string {
	var w strings.Builder
	if st.Armed {
		w.WriteString(armedColor.Sprint("ARMED"))
	} else {
		w.WriteString(disarmedColor.Sprint("disarmed"))
	}
	w.WriteString(" link=")
	if st.LinkOK {
		w.WriteString(linkOKColor.Sprint("ok"))
	} else {
		w.WriteString(linkDownColor.Sprint("down"))
	}
	fmt.Fprintf(&w, " override=%v tx=%v rx=%v", st.Override, st.Transmitting, st.Receiving)
	fmt.Fprintf(&w, "\naxes roll=%.2f pitch=%.2f yaw=%.2f throttle=%.2f",
		st.Axes.Roll, st.Axes.Pitch, st.Axes.Yaw, st.Axes.Throttle)
	fmt.Fprintf(&w, "\nframes tx=%d tx-failed=%d rx=%d rx-dropped=%d rx-unknown=%d polls=%d",
		st.Stats.TxFrames, st.Stats.TxFailed,
		st.Stats.Receiver.Frames, st.Stats.Receiver.Dropped, st.Stats.Receiver.Unknown, st.Stats.Receiver.Polls)
	return w.String()
}

// Status is the engine status shown by the status command.
type Status struct {
	Armed        bool       `json:"armed"`
	LinkOK       bool       `json:"link_ok"`
	Override     bool       `json:"override"`
	Transmitting bool       `json:"transmitting"`
	Receiving    bool       `json:"receiving"`
	Axes         link.Axes  `json:"axes"`
	Stats        link.Stats `json:"stats"`
}

// StatusOf takes the engine status.
func StatusOf(e *link.Engine) Status {
	return Status{
		Armed:        e.IsArmed(),
		LinkOK:       e.IsLinkOK(),
		Override:     e.State.SafetyOverride(),
		Transmitting: e.Transmitting(),
		Receiving:    e.Receiving(),
		Axes:         e.State.Axes(),
		Stats:        e.Stats(),
	}
}

// Run runs the shell. With args, they are executed as a single command.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if !s.Interactive {
		return fmt.Errorf("command expected")
	}
	if !s.Engine.Transmitting() {
		s.Shell.Println("Not transmitting, use tx start.")
	}
	s.Shell.Run()
	return nil
}
