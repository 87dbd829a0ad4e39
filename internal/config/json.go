package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON decoding. Duration
// fields use the string-aware [Duration] wrapper so a config file can say
// "30s" instead of nanosecond integers.
type StructuredJSONConfig struct {
	App struct {
		BaseURL       string `json:"base_url"`
		CookieSignKey string `json:"cookie_sign_key"`
		BcryptCost    int    `json:"bcrypt_cost"`
		SecureCookies bool   `json:"secure_cookies"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mailer struct {
		Endpoint string `json:"endpoint"`
		APIKey   string `json:"api_key"`
		From     string `json:"from"`
	} `json:"mailer,omitempty"`

	Workers struct {
		ResetSweepInterval Duration `json:"reset_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			BaseURL:       jsonCfg.App.BaseURL,
			CookieSignKey: jsonCfg.App.CookieSignKey,
			BcryptCost:    jsonCfg.App.BcryptCost,
			SecureCookies: jsonCfg.App.SecureCookies,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mailer: Mailer{
			Endpoint: jsonCfg.Mailer.Endpoint,
			APIKey:   jsonCfg.Mailer.APIKey,
			From:     jsonCfg.Mailer.From,
		},
		Workers: Workers{
			ResetSweepInterval: time.Duration(jsonCfg.Workers.ResetSweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return errors.New("invalid duration value")
	}
}
