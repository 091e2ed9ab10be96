package main

import (
	"runtime"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"frame-bridge/cmd"
	"frame-bridge/pkg/config"
	"frame-bridge/pkg/key"
	"frame-bridge/pkg/log"
)

// SDL must be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	lo.Must0(config.Setup(afero.NewOsFs(), ""))
	log.Setup(viper.GetString(key.LogsLevel), viper.GetBool(key.LogsJson))

	cmd.Execute()
}
