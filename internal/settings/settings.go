// Package settings persists the interactive front-end's field values
// between sessions.
package settings

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/internal/version"
	"github.com/janucaria/himada/pkg/errors"
)

const (
	organization = "Janucaria"
	application  = "Himada"
	fileName     = "settings.yaml"
)

// Settings holds the last used values of every form field.
type Settings struct {
	// Version is the app version that wrote the file
	Version    string         `yaml:"version"`
	Tickers    string         `yaml:"tickers"`
	Mode       types.Mode     `yaml:"mode"`
	Period     string         `yaml:"period"`
	Interval   types.Interval `yaml:"interval"`
	Start      string         `yaml:"start"`
	End        string         `yaml:"end"`
	Actions    bool           `yaml:"actions"`
	AutoAdjust bool           `yaml:"auto_adjust"`
	OutDir     string         `yaml:"out_dir"`
	Provider   string         `yaml:"provider"`
}

// DefaultSettings returns settings with default values. The range defaults
// to the year before now.
func DefaultSettings(now time.Time) *Settings {
	homeDir, _ := os.UserHomeDir()

	return &Settings{
		Version:    version.GetVersion(),
		Tickers:    "BBCA.JK",
		Mode:       types.ModeMax,
		Period:     types.PeriodMax,
		Interval:   types.IntervalOneDay,
		Start:      now.AddDate(-1, 0, 0).Format(types.DateLayout),
		End:        now.Format(types.DateLayout),
		Actions:    false,
		AutoAdjust: true,
		OutDir:     filepath.Join(homeDir, "himada_csv"),
		Provider:   "yahoo",
	}
}

// DefaultPath returns the settings file inside the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSettingsLoadFailed, "failed to locate user config directory", err)
	}

	return filepath.Join(dir, organization, application, fileName), nil
}

// Store reads and writes one settings file.
// Store is safe for concurrent use. Every snapshot takes a revision when it
// is captured, and a write never replaces the file with an older revision.
type Store struct {
	path   string
	logger *logger.Logger
	now    func() time.Time

	revision atomic.Uint64

	mu      sync.Mutex
	written uint64
}

func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Store{
		path:   path,
		logger: log,
		now:    time.Now,
	}
}

// Path returns the file the store uses.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file, or one written by an
// incompatible major version, yields the defaults. Unknown field values are
// replaced by their defaults one by one.
func (s *Store) Load() (*Settings, error) {
	defaults := DefaultSettings(s.now())

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}

		return nil, errors.Wrapf(errors.ErrCodeSettingsLoadFailed, err, "failed to read %s", s.path)
	}

	settings := DefaultSettings(s.now())
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSettingsLoadFailed, err, "failed to parse %s", s.path)
	}

	if err := version.CheckSettingsCompatibility(version.GetVersion(), settings.Version); err != nil {
		s.logger.Warn("Ignoring settings from another version", zap.String("path", s.path), zap.Error(err))

		return defaults, nil
	}

	settings.normalize(defaults)

	return settings, nil
}

// Revision reserves the next snapshot number. Callers that save in the
// background take it while the values are captured and pass it to
// SaveRevision.
func (s *Store) Revision() uint64 {
	return s.revision.Add(1)
}

// Save writes the settings as the newest revision, stamping the running
// version.
func (s *Store) Save(settings *Settings) error {
	return s.SaveRevision(s.Revision(), settings)
}

// SaveRevision writes the settings unless a later revision is already on
// disk, in which case it does nothing.
func (s *Store) SaveRevision(revision uint64, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revision <= s.written {
		s.logger.Debug("Skipping stale settings snapshot",
			zap.Uint64("revision", revision),
			zap.Uint64("written", s.written),
		)

		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to create %s", dir)
	}

	out := *settings
	out.Version = version.GetVersion()

	data, err := yaml.Marshal(&out)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSettingsSaveFailed, "failed to encode settings", err)
	}

	// readers see either the old file or the new one
	tmp, err := os.CreateTemp(dir, fileName+".*.tmp")
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to write %s", s.path)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to write %s", s.path)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to write %s", s.path)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to write %s", s.path)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(errors.ErrCodeSettingsSaveFailed, err, "failed to replace %s", s.path)
	}

	s.written = revision

	return nil
}

func (s *Settings) normalize(defaults *Settings) {
	if !s.Mode.IsValid() {
		s.Mode = defaults.Mode
	}

	if !s.Interval.IsValid() {
		s.Interval = defaults.Interval
	}

	if !slices.Contains(types.Periods, s.Period) {
		s.Period = defaults.Period
	}

	if _, err := time.Parse(types.DateLayout, s.Start); err != nil {
		s.Start = defaults.Start
	}

	if _, err := time.Parse(types.DateLayout, s.End); err != nil {
		s.End = defaults.End
	}

	if s.OutDir == "" {
		s.OutDir = defaults.OutDir
	}

	if s.Provider == "" {
		s.Provider = defaults.Provider
	}
}
