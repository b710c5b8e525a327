package env

import (
	"github.com/spf13/viper"
)

// GetString reads a string configuration value by name. Defaults are
// registered at startup via viper.SetDefault; environment variables
// override them through viper.AutomaticEnv.
func GetString(name string) string {
	return viper.GetString(name)
}

func GetInt(name string) int {
	return viper.GetInt(name)
}

func GetInt64(name string) int64 {
	return viper.GetInt64(name)
}

func GetFloat64(name string) float64 {
	return viper.GetFloat64(name)
}

func GetBool(name string) bool {
	return viper.GetBool(name)
}
