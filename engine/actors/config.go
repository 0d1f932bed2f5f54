package actors

import (
	"os"
	"path/filepath"

	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/viper"

	"nostrevents/engine/library"
)

// InitConfig sets up our Viper config object. A rootDir that is already set
// on config is kept, otherwise ~/nostrevents/ is used.
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "nostrevents")+string(filepath.Separator))
	config.SetConfigType("yaml")
	config.SetConfigFile(configFile(config))
	if err = config.ReadInConfig(); err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("logLevel", 4)
	// defaults for new events built by the event tool
	config.SetDefault("kind", int(library.TextNote))
	config.SetDefault("powBits", 0)
	config.SetDefault("client", "nostrevents")
	// events further than this in the future fail verification
	config.SetDefault("maxFutureSeconds", 900)
	config.SetDefault("relays", []string{})

	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	if err = touch(configFile(config)); err != nil {
		library.LogCLI(err.Error(), 1)
		return
	}
	if err = config.WriteConfig(); err != nil {
		library.LogCLI(err.Error(), 1)
	}
}

func configFile(config *viper.Viper) string {
	return filepath.Join(config.GetString("rootDir"), "config.yaml")
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 1)
		}
	}
}

func touch(name string) error {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

var conf *viper.Viper
var confMutex = &deadlock.Mutex{}

// MakeOrGetConfig returns the global config, initialising a default one on first use.
func MakeOrGetConfig() *viper.Viper {
	confMutex.Lock()
	defer confMutex.Unlock()
	if conf == nil {
		conf = viper.New()
		InitConfig(conf)
	}
	return conf
}

func SetConfig(config *viper.Viper) {
	confMutex.Lock()
	defer confMutex.Unlock()
	conf = config
}

// MaxFutureTime is the latest created_at that Verify should accept right now.
func MaxFutureTime(config *viper.Viper) *library.Unixtime {
	t := library.Now() + library.Unixtime(config.GetInt64("maxFutureSeconds"))
	return &t
}
