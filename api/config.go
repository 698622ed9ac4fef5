package api

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/SYCompass/syrianzone-tierlist/logging"
)

type Config struct {
	StorageConfig
	ServerConfig
	ExportConfig
}

type StorageConfig struct {
	TableNamePolls       string
	TableNameGroups      string
	TableNameCandidates  string
	TableNameSubmissions string
}

type ServerConfig struct {
	Port          int
	MinSelections int
}

type ExportConfig struct {
	FontPath     string
	BoldFontPath string
	LogoPath     string
	Caption      string
	Width        int
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNamePolls:       getString("storage.TableNamePolls"),
			TableNameGroups:      getString("storage.TableNameGroups"),
			TableNameCandidates:  getString("storage.TableNameCandidates"),
			TableNameSubmissions: getString("storage.TableNameSubmissions"),
		},
		ServerConfig: ServerConfig{
			Port:          getIntOrDefault("server.port", 8080),
			MinSelections: getIntOrDefault("server.minSelections", 3),
		},
		ExportConfig: ExportConfig{
			FontPath:     getStringOrDefault("export.fontPath", ""),
			BoldFontPath: getStringOrDefault("export.boldFontPath", ""),
			LogoPath:     getStringOrDefault("export.logoPath", ""),
			Caption:      getStringOrDefault("export.caption", ""),
			Width:        getIntOrDefault("export.width", 0),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
