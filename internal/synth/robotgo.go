package synth

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// chunkSize bounds a single TypeStr call so long expansions do not
// overwhelm the receiving application's input buffer.
const chunkSize = 512

// RobotTypist drives the OS input layer via robotgo.
type RobotTypist struct{}

// NewRobotTypist returns the production Typist.
func NewRobotTypist() *RobotTypist {
	return &RobotTypist{}
}

func (r *RobotTypist) Backspace() error {
	if err := robotgo.KeyTap("backspace"); err != nil {
		return fmt.Errorf("key tap backspace: %w", err)
	}
	return nil
}

func (r *RobotTypist) Enter() error {
	if err := robotgo.KeyTap("enter"); err != nil {
		return fmt.Errorf("key tap enter: %w", err)
	}
	return nil
}

func (r *RobotTypist) Type(text string) error {
	runes := []rune(text)
	for len(runes) > 0 {
		n := len(runes)
		if n > chunkSize {
			n = chunkSize
		}
		robotgo.TypeStr(string(runes[:n]))
		robotgo.MilliSleep(10)
		runes = runes[n:]
	}
	return nil
}
