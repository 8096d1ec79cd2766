package main

import (
	"stockalert/cmd/stockalert/commands"
	"stockalert/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
