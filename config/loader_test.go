package config_test

import (
	"testing"

	"github.com/gocrud/injector/config"
	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
	"github.com/stretchr/testify/assert"
)

type serverSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func TestConfigOption(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	rt := core.NewRuntime()
	err := rt.Apply(config.New(
		config.WithInMemory(map[string]any{
			"server": map[string]any{
				"host": "localhost",
				"port": 8080,
			},
		}),
		// 环境变量覆盖内存配置
		config.WithEnvPrefix("MYAPP_"),
	))
	assert.NoError(t, err)
	assert.NoError(t, rt.Build())

	cfg, err := core.GetService[config.Configuration](rt)
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Get("server:host"))

	port, err := cfg.GetInt("server:port")
	assert.NoError(t, err)
	assert.Equal(t, 9090, port)
}

func TestBindSection(t *testing.T) {
	rt := core.NewRuntime()
	err := rt.Apply(config.New(
		config.WithInMemory(map[string]any{
			"server": map[string]any{
				"host": "0.0.0.0",
				"port": 8443,
			},
		}),
	))
	assert.NoError(t, err)

	assert.NoError(t, config.Bind[serverSettings](rt, "server"))
	assert.NoError(t, rt.Build())

	settings, err := di.Get[*serverSettings](rt.Injector())
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0", settings.Host)
	assert.Equal(t, 8443, settings.Port)
}

func TestBindMissingSection(t *testing.T) {
	rt := core.NewRuntime()
	assert.NoError(t, rt.Apply(config.New(
		config.WithInMemory(map[string]any{}),
	)))
	assert.NoError(t, config.Bind[serverSettings](rt, "absent"))
	assert.NoError(t, rt.Build())

	// 绑定是惰性的，错误在首次解析时出现
	_, err := di.Get[*serverSettings](rt.Injector())
	assert.Error(t, err)
}

func TestSourcePrecedence(t *testing.T) {
	builder := config.NewConfigurationBuilder()
	builder.AddInMemory(map[string]any{"app": map[string]any{"name": "first", "mode": "debug"}})
	builder.AddInMemory(map[string]any{"app": map[string]any{"name": "second"}})

	cfg, err := builder.Build()
	assert.NoError(t, err)
	assert.Equal(t, "second", cfg.Get("app:name"))
	assert.Equal(t, "debug", cfg.Get("app:mode"))
}

func TestGetSection(t *testing.T) {
	builder := config.NewConfigurationBuilder()
	builder.AddInMemory(map[string]any{
		"db": map[string]any{"master": map[string]any{"dsn": "file::memory:"}},
	})

	cfg, err := builder.Build()
	assert.NoError(t, err)

	section := cfg.GetSection("db:master")
	assert.Equal(t, "file::memory:", section.Get("dsn"))

	empty := cfg.GetSection("missing")
	assert.Empty(t, empty.GetAll())
}
