package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMinQuotes         = "markov.min_quotes"
	keyCharLimit         = "markov.char_limit"
	keyTries             = "markov.tries"
	keyStateSize         = "markov.state_size"
	keyTokenizer         = "markov.tokenizer"
	keyRandomSample      = "quotes.random_sample"
	keyGroupRandomSample = "quotes.group_random_sample"
	keySweepInterval     = "sweep.interval"
	keySweepConcurrency  = "sweep.concurrency"
	keySweepRebuildRate  = "sweep.rebuild_rate"
	keySchedulerEnabled  = "scheduler.enabled"
	keyDataDir           = "storage.data_dir"
)

// settingKeys lists every supported key in display order.
var settingKeys = []string{
	keyMinQuotes, keyCharLimit, keyTries, keyStateSize, keyTokenizer,
	keyRandomSample, keyGroupRandomSample,
	keySweepInterval, keySweepConcurrency, keySweepRebuildRate, keySchedulerEnabled,
	keyDataDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing values fall back
// to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Markov: domain.MarkovSettings{
			MinQuotes: s.getInt(keyMinQuotes, defaults.Markov.MinQuotes),
			CharLimit: s.getInt(keyCharLimit, defaults.Markov.CharLimit),
			Tries:     s.getInt(keyTries, defaults.Markov.Tries),
			StateSize: s.getInt(keyStateSize, defaults.Markov.StateSize),
			Tokenizer: s.getTokenizer(defaults.Markov.Tokenizer),
		},
		Quotes: domain.QuoteSettings{
			RandomSample:      s.getInt(keyRandomSample, defaults.Quotes.RandomSample),
			GroupRandomSample: s.getInt(keyGroupRandomSample, defaults.Quotes.GroupRandomSample),
		},
		Sweep: domain.SweepSettings{
			Interval:         s.getDuration(keySweepInterval, defaults.Sweep.Interval),
			Concurrency:      s.getInt(keySweepConcurrency, defaults.Sweep.Concurrency),
			RebuildRate:      s.getFloat(keySweepRebuildRate, defaults.Sweep.RebuildRate),
			SchedulerEnabled: s.getBool(keySchedulerEnabled, defaults.Sweep.SchedulerEnabled),
		},
		DataDir: s.getString(keyDataDir, defaults.DataDir),
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyMinQuotes, settings.Markov.MinQuotes},
		{keyCharLimit, settings.Markov.CharLimit},
		{keyTries, settings.Markov.Tries},
		{keyStateSize, settings.Markov.StateSize},
		{keyTokenizer, settings.Markov.Tokenizer.String()},
		{keyRandomSample, settings.Quotes.RandomSample},
		{keyGroupRandomSample, settings.Quotes.GroupRandomSample},
		{keySweepInterval, settings.Sweep.Interval.String()},
		{keySweepConcurrency, settings.Sweep.Concurrency},
		{keySweepRebuildRate, settings.Sweep.RebuildRate},
		{keySchedulerEnabled, settings.Sweep.SchedulerEnabled},
		{keyDataDir, settings.DataDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// Set parses value for key and stores it if the resulting settings are
// valid.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var stored any
	switch key {
	case keyMinQuotes:
		settings.Markov.MinQuotes, err = parseInt(key, value)
		stored = settings.Markov.MinQuotes
	case keyCharLimit:
		settings.Markov.CharLimit, err = parseInt(key, value)
		stored = settings.Markov.CharLimit
	case keyTries:
		settings.Markov.Tries, err = parseInt(key, value)
		stored = settings.Markov.Tries
	case keyStateSize:
		settings.Markov.StateSize, err = parseInt(key, value)
		stored = settings.Markov.StateSize
	case keyTokenizer:
		settings.Markov.Tokenizer = domain.TokenizerKind(value)
		stored = value
	case keyRandomSample:
		settings.Quotes.RandomSample, err = parseInt(key, value)
		stored = settings.Quotes.RandomSample
	case keyGroupRandomSample:
		settings.Quotes.GroupRandomSample, err = parseInt(key, value)
		stored = settings.Quotes.GroupRandomSample
	case keySweepInterval:
		settings.Sweep.Interval, err = time.ParseDuration(value)
		stored = value
	case keySweepConcurrency:
		settings.Sweep.Concurrency, err = parseInt(key, value)
		stored = settings.Sweep.Concurrency
	case keySweepRebuildRate:
		settings.Sweep.RebuildRate, err = strconv.ParseFloat(value, 64)
		stored = settings.Sweep.RebuildRate
	case keySchedulerEnabled:
		settings.Sweep.SchedulerEnabled, err = strconv.ParseBool(value)
		stored = settings.Sweep.SchedulerEnabled
	case keyDataDir:
		settings.DataDir = value
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return err
	}
	return s.configStore.Save()
}

// Keys lists the supported config keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Readers below fall back to the default when a key is missing or holds
// a value of the wrong type. TOML decodes integers as int64 and the
// memory store keeps whatever was set, so both are accepted.

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.configStore.Get(key); ok {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	v, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	v, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := s.configStore.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// getDuration parses a duration string like "45m" or "1h".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.getString(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getTokenizer(defaultVal domain.TokenizerKind) domain.TokenizerKind {
	kind := domain.TokenizerKind(s.getString(keyTokenizer, ""))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
