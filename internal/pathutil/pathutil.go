// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// EnvSuffix selects an alternate set of files, so a test profile never
// touches real data.
const EnvSuffix = "BABYTIMER_ENV"

// Paths holds all application path configurations.
type Paths struct {
	configDir        string
	configFileName   string
	dbFileName       string
	sharedDBFileName string
	logFileName      string

	// Computed absolute paths
	dataDir        string
	configFilePath string
	dbFilePath     string
	sharedDBPath   string
	logFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize must be called once at program startup.
func Initialize() error {
	once.Do(func() {
		p := &Paths{
			configDir:        "babytimer",
			configFileName:   "config.yml",
			dbFileName:       "babytimer.db",
			sharedDBFileName: "shared.db",
			logFileName:      "babytimer.log",
		}

		p.applyEnvironmentOverrides()

		initErr = p.computePaths()
		if initErr == nil {
			paths = p
		}
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

// DataDir holds the databases, the logs and the notification icon.
func DataDir() string {
	return Must().dataDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

// SharedDBPath is the database shared with the surface control processes.
func SharedDBPath() string {
	return Must().sharedDBPath
}

func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv(EnvSuffix))
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("babytimer_%s.db", env)
	p.sharedDBFileName = fmt.Sprintf("shared_%s.db", env)
	p.logFileName = fmt.Sprintf("babytimer_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}

	p.dataDir = dataDir

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)

	p.sharedDBPath = filepath.Join(dataDir, p.sharedDBFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
