package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host    string  `koanf:"host"`
	Storage Storage `koanf:"storage"`
	Policy  Policy  `koanf:"policy"`
}

type Storage struct {
	// Path is the location of the SQLite file holding all user records.
	Path string `koanf:"path"`
}

// Policy carries the advisory heuristics that were hard-coded in early
// versions of the tracker. They are plain numbers, not feature flags.
type Policy struct {
	// LargeItemShare is the fraction of monthly income above which a single
	// expense, event, or goal is reported as a large item.
	LargeItemShare float64 `koanf:"largeitemshare"`
	// RecentMonthsLimit caps how many opened months are remembered per user.
	RecentMonthsLimit int `koanf:"recentmonthslimit"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Storage: Storage{
			Path: "storage/finbook.db",
		},
		Policy: Policy{
			LargeItemShare:    0.4,
			RecentMonthsLimit: 18,
		},
	}, "koanf"), nil)
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
		Prefix: "FINBOOK_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINBOOK_")), "_", ".")
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

	return app, nil
}
