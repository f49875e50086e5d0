// Command crewcast forecasts expected throughput from operator entry/exit logs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/crewcast/cmd"
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)

	err := cmd.Execute()
	stop()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
