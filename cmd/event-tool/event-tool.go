package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"nostrevents/engine/actors"
)

func main() {
	conf := viper.New()
	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)
	if err := RootCommand(conf).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
