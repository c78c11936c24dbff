package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "ROSTER_"

type Application struct {
	Listen  string  `koanf:"listen"`
	Locale  string  `koanf:"locale"`
	Backend Backend `koanf:"backend"`
}

// Backend describes the remote service hosting the event store and the user directory.
type Backend struct {
	BaseUrl string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
	OAuth   OAuth         `koanf:"oauth"`
}

type OAuth struct {
	ClientId     string   `koanf:"clientid"`
	ClientSecret string   `koanf:"clientsecret"`
	TokenUrl     string   `koanf:"tokenurl"`
	Scopes       []string `koanf:"scopes"`
}

// Enabled reports whether requests to the backend should carry client-credentials tokens.
func (o OAuth) Enabled() bool {
	return o.ClientId != "" && o.TokenUrl != ""
}

func Defaults() Application {
	return Application{
		Listen: ":8181",
		Locale: "en",
		Backend: Backend{
			BaseUrl: "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			if k == "backend.oauth.scopes" {
				return k, strings.Fields(strings.ReplaceAll(v, ",", " "))
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	app.Backend.BaseUrl = strings.TrimRight(app.Backend.BaseUrl, "/")

	return app, nil
}
