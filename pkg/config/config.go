package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// NewConfig loads the yaml file at p. APP_CONF overrides the path, and any key can be
// overridden by an environment variable, e.g. CLOUD_DRIVER for cloud.driver.
func NewConfig(p string) *viper.Viper {
	envConf := os.Getenv("APP_CONF")
	if envConf == "" {
		envConf = p
	}
	fmt.Println("load conf file:", envConf)
	return getConfig(envConf)
}

func getConfig(path string) *viper.Viper {
	conf := viper.New()
	conf.SetConfigFile(path)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()
	if err := conf.ReadInConfig(); err != nil {
		panic(err)
	}
	return conf
}
