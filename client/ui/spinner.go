package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var SectionHeaderColor = color.New(color.BgHiWhite, color.FgBlack)

// Output is where spinners and their final messages are written.
var Output io.Writer = os.Stderr

// Spinner reports the progress of a single step.
// When Output is not a terminal, only the final message is printed.
type Spinner struct {
	*spinner.Spinner
	msg string
}

// NewSpinner creates and starts a new spinner with the given message.
func NewSpinner(msg string) *Spinner {
	s := &Spinner{msg: msg}
	if isTerminal(Output) {
		s.Spinner = spinner.New(
			spinner.CharSets[14],
			200*time.Millisecond,
			spinner.WithHiddenCursor(true),
			spinner.WithWriter(Output),
			spinner.WithSuffix(" "+msg),
		)
		s.Start()
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// UpdateMessage updates the spinner message.
// This function is safe to call on a nil Spinner.
func (s *Spinner) UpdateMessage(msg string) {
	if s == nil {
		return
	}
	if s.Spinner != nil {
		s.Spinner.Suffix = " " + msg
	}
	s.msg = msg
}

// Success stops the spinner and prints a success message.
// This function is safe to call on a nil Spinner.
func (s *Spinner) Success(msg ...string) {
	s.finish(color.HiGreenString("✓"), msg)
}

// Warn stops the spinner and prints a warning message.
// This function is safe to call on a nil Spinner.
func (s *Spinner) Warn(msg ...string) {
	s.finish(color.HiYellowString("!"), msg)
}

// Fail stops the spinner and prints a failure message.
// This function is safe to call on a nil Spinner.
func (s *Spinner) Fail(msg ...string) {
	s.finish(color.HiRedString("✗"), msg)
}

func (s *Spinner) finish(mark string, msg []string) {
	if s == nil {
		return
	}
	if len(msg) == 0 {
		msg = []string{s.msg}
	}

	final := fmt.Sprintf("%s %s\n", mark, msg[0])
	if s.Spinner == nil {
		fmt.Fprint(Output, final)
		return
	}
	s.Spinner.FinalMSG = final
	s.Stop()
}
