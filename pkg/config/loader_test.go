package config_test

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/pkg/config"
)

type defaultsConfig struct {
	Addr     string `env:"CFG_DEFAULTS_ADDR" envDefault:":8080"`
	ReadOnly bool   `env:"CFG_DEFAULTS_READ_ONLY" envDefault:"false"`
	Size     int    `env:"CFG_DEFAULTS_SIZE" envDefault:"20"`
}

type successConfig struct {
	Driver string `env:"CFG_SUCCESS_DRIVER" envDefault:"memory"`
	Size   int    `env:"CFG_SUCCESS_SIZE"`
}

type singletonConfig struct {
	Value string `env:"CFG_SINGLETON_VALUE" envDefault:"first"`
}

type requiredConfig struct {
	Value string `env:"CFG_REQUIRED_VALUE,required"`
}

type fileConfig struct {
	Name   string   `env:"CFG_TEST_NAME"`
	Size   int      `env:"CFG_TEST_SIZE"`
	Tags   []string `env:"CFG_TEST_TAGS" envSeparator:","`
	Quoted string   `env:"CFG_TEST_QUOTED"`
	Only   string   `env:"CFG_TEST_ONLY_OVERRIDE"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("CFG_SUCCESS_DRIVER", "mongo")
	t.Setenv("CFG_SUCCESS_SIZE", "200")

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mongo", cfg.Driver)
	assert.Equal(t, 200, cfg.Size)
}

func TestLoad_DefaultValues(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 20, cfg.Size)
}

func TestLoad_Singleton(t *testing.T) {
	t.Setenv("CFG_SINGLETON_VALUE", "first")

	var first singletonConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFG_SINGLETON_VALUE", "second")

	var cached singletonConfig
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "first", cached.Value)

	var reloaded singletonConfig
	require.NoError(t, config.ForceReloadConfig(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestLoad_Concurrent(t *testing.T) {
	type concurrentConfig struct {
		Value string `env:"CFG_CONCURRENT_VALUE" envDefault:"shared"`
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var cfg concurrentConfig
			assert.NoError(t, config.Load(&cfg))
			assert.Equal(t, "shared", cfg.Value)
		}()
	}
	wg.Wait()
}

func TestLoad_MissingRequiredIsRetried(t *testing.T) {
	require.NoError(t, os.Unsetenv("CFG_REQUIRED_VALUE"))

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CFG_REQUIRED_VALUE", "present")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "present", cfg.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	type mustConfig struct {
		Value string `env:"CFG_MUST_VALUE,required"`
	}
	require.NoError(t, os.Unsetenv("CFG_MUST_VALUE"))

	assert.Panics(t, func() {
		var cfg mustConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv_Files(t *testing.T) {
	for _, k := range []string{"CFG_TEST_NAME", "CFG_TEST_SIZE", "CFG_TEST_TAGS", "CFG_TEST_QUOTED", "CFG_TEST_ONLY_OVERRIDE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	require.NoError(t, config.LoadEnv("testdata/.env.base", "testdata/.env.override"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "override", cfg.Name)
	assert.Equal(t, 10, cfg.Size)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
	assert.Equal(t, "quoted value", cfg.Quoted)
	assert.Equal(t, "yes", cfg.Only)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)

	assert.Panics(t, func() {
		config.MustLoadEnv("testdata/does-not-exist.env")
	})
}
