package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/internal/version"
	"github.com/janucaria/himada/pkg/errors"
)

type SettingsTestSuite struct {
	suite.Suite
	path  string
	store *Store
	now   time.Time
}

func TestSettingsSuite(t *testing.T) {
	suite.Run(t, new(SettingsTestSuite))
}

func (suite *SettingsTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "Janucaria", "Himada", "settings.yaml")
	suite.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	suite.store = NewStore(suite.path, nil)
	suite.store.now = func() time.Time { return suite.now }
}

func (suite *SettingsTestSuite) TestDefaults() {
	settings := DefaultSettings(suite.now)

	suite.Equal("BBCA.JK", settings.Tickers)
	suite.Equal(types.ModeMax, settings.Mode)
	suite.Equal("max", settings.Period)
	suite.Equal(types.IntervalOneDay, settings.Interval)
	suite.Equal("2023-06-15", settings.Start)
	suite.Equal("2024-06-15", settings.End)
	suite.False(settings.Actions)
	suite.True(settings.AutoAdjust)
	suite.True(strings.HasSuffix(settings.OutDir, "himada_csv"))
	suite.Equal("yahoo", settings.Provider)
}

func (suite *SettingsTestSuite) TestLoadMissingFileGivesDefaults() {
	settings, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal(DefaultSettings(suite.now), settings)
	suite.NoFileExists(suite.path)
}

func (suite *SettingsTestSuite) TestSaveAndLoad() {
	settings := DefaultSettings(suite.now)
	settings.Tickers = "AAPL, MSFT"
	settings.Mode = types.ModeRange
	settings.Interval = types.IntervalOneHour
	settings.Start = "2024-01-01"
	settings.End = "2024-02-01"
	settings.Actions = true
	settings.AutoAdjust = false
	settings.OutDir = "/data/csv"
	settings.Version = "v0.0.1"

	suite.Require().NoError(suite.store.Save(settings))
	suite.FileExists(suite.path)

	loaded, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal("AAPL, MSFT", loaded.Tickers)
	suite.Equal(types.ModeRange, loaded.Mode)
	suite.Equal(types.IntervalOneHour, loaded.Interval)
	suite.Equal("2024-01-01", loaded.Start)
	suite.True(loaded.Actions)
	suite.False(loaded.AutoAdjust)
	suite.Equal("/data/csv", loaded.OutDir)
	// the stored version is the running one, not the caller's
	suite.Equal(version.GetVersion(), loaded.Version)
	suite.Equal("v0.0.1", settings.Version)
}

func (suite *SettingsTestSuite) TestIncompatibleVersionIsIgnored() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path), 0o755))
	content := "version: v99.0.0\ntickers: OLD\nmode: period\n"
	suite.Require().NoError(os.WriteFile(suite.path, []byte(content), 0o644))

	loaded, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal("BBCA.JK", loaded.Tickers)
	suite.Equal(types.ModeMax, loaded.Mode)
}

func (suite *SettingsTestSuite) TestUnknownValuesFallBackToDefaults() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path), 0o755))
	content := "tickers: TLKM.JK\nmode: forever\ninterval: 4h\nperiod: 3w\nstart: yesterday\n"
	suite.Require().NoError(os.WriteFile(suite.path, []byte(content), 0o644))

	loaded, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal("TLKM.JK", loaded.Tickers)
	suite.Equal(types.ModeMax, loaded.Mode)
	suite.Equal(types.IntervalOneDay, loaded.Interval)
	suite.Equal("max", loaded.Period)
	suite.Equal("2023-06-15", loaded.Start)
}

func (suite *SettingsTestSuite) TestCorruptFile() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path), 0o755))
	suite.Require().NoError(os.WriteFile(suite.path, []byte("tickers: [unclosed"), 0o644))

	_, err := suite.store.Load()
	suite.True(errors.HasCode(err, errors.ErrCodeSettingsLoadFailed))
}

func (suite *SettingsTestSuite) TestSaveFailure() {
	blocker := filepath.Join(suite.T().TempDir(), "blocker")
	suite.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewStore(filepath.Join(blocker, "settings.yaml"), nil)
	err := store.Save(DefaultSettings(suite.now))
	suite.True(errors.HasCode(err, errors.ErrCodeSettingsSaveFailed))
}

func (suite *SettingsTestSuite) TestOlderRevisionDoesNotOverwrite() {
	older := DefaultSettings(suite.now)
	older.Tickers = "OLD"
	olderRevision := suite.store.Revision()

	newer := DefaultSettings(suite.now)
	newer.Tickers = "NEW"
	suite.Require().NoError(suite.store.Save(newer))

	suite.Require().NoError(suite.store.SaveRevision(olderRevision, older))

	loaded, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal("NEW", loaded.Tickers)
}

func (suite *SettingsTestSuite) TestConcurrentSavesKeepNewestRevision() {
	const count = 20

	revisions := make([]uint64, count)
	snapshots := make([]*Settings, count)
	for i := range count {
		revisions[i] = suite.store.Revision()
		snapshots[i] = DefaultSettings(suite.now)
		snapshots[i].Tickers = fmt.Sprintf("T%d", i)
	}

	var wg sync.WaitGroup
	// launched newest first so the oldest snapshots tend to land last
	for i := count - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suite.NoError(suite.store.SaveRevision(revisions[i], snapshots[i]))
		}(i)
	}
	wg.Wait()

	loaded, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Equal(fmt.Sprintf("T%d", count-1), loaded.Tickers)

	entries, err := os.ReadDir(filepath.Dir(suite.path))
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *SettingsTestSuite) TestDefaultPath() {
	path, err := DefaultPath()
	if err != nil {
		suite.T().Skip("no user config directory")
	}
	suite.True(strings.HasSuffix(path, filepath.Join("Janucaria", "Himada", "settings.yaml")))
}
