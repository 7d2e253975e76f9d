package main

import (
	"github.com/dcosme/score-qualtrics/cmd/scoreq/commands"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
