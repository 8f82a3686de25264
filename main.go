// main is the entry point for the genviz CLI.
package main

import (
	"github.com/huangsam/genviz/cmd"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run command", err)
	}
}
