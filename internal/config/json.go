// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		VerifierPepper string   `json:"verifier_pepper"`
		SessionTTL     Duration `json:"session_ttl"`
		Version        string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Redis struct {
		Address  string `json:"address"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	RateLimits struct {
		Login    JSONRate `json:"login"`
		Register JSONRate `json:"register"`
		Recover  JSONRate `json:"recover"`
		API      JSONRate `json:"api"`
	} `json:"rate_limits,omitempty"`
}

// JSONRate mirrors [Rate] with a string-friendly window for JSON files.
type JSONRate struct {
	Limit  int      `json:"limit"`
	Window Duration `json:"window"`
}

func (r JSONRate) toRate() Rate {
	return Rate{Limit: r.Limit, Window: time.Duration(r.Window)}
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
			VerifierPepper: jsonCfg.App.VerifierPepper,
			SessionTTL:     time.Duration(jsonCfg.App.SessionTTL),
			Version:        jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Redis: Redis{
			Address:  jsonCfg.Redis.Address,
			Password: jsonCfg.Redis.Password,
			DB:       jsonCfg.Redis.DB,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		RateLimits: RateLimits{
			Login:    jsonCfg.RateLimits.Login.toRate(),
			Register: jsonCfg.RateLimits.Register.toRate(),
			Recover:  jsonCfg.RateLimits.Recover.toRate(),
			API:      jsonCfg.RateLimits.API.toRate(),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
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
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
