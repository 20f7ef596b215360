package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/flagx"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	AdminDSN         string         `json:"admin_dsn"`
	DatabaseName     string         `json:"database_name"`
	LedgerEndpoint   string         `json:"ledger_endpoint"`
	StoreTimeout     timex.Duration `json:"store_timeout"`
	LedgerTimeout    timex.Duration `json:"ledger_timeout"`
	LogLevel         string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.AdminDSN = c.AdminDSN
	config.DatabaseName = c.DatabaseName
	config.LedgerEndpoint = c.LedgerEndpoint
	config.StoreTimeout = time.Duration(c.StoreTimeout.Duration)
	config.LedgerTimeout = time.Duration(c.LedgerTimeout.Duration)
	config.LogLevel = c.LogLevel
}
