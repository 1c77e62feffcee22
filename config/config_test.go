package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	os.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	os.Setenv("DB_NAME", "feedfusion_test")
	defer func() {
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		os.Unsetenv("DB_NAME")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "test-token", cfg.Telegram.BotToken)
	require.Equal(t, "feedfusion_test", cfg.Database.Name)
	require.Equal(t, []string{"localhost:9093"}, cfg.Kafka.Brokers)
	require.Equal(t, "0 3 * * *", cfg.Sweeper.Schedule)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingToken(t *testing.T) {
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "bot",
		Password: "secret",
		Name:     "feedfusion",
		SSLMode:  "disable",
	}

	require.Equal(t,
		"host=db port=5432 user=bot password=secret dbname=feedfusion sslmode=disable",
		cfg.GetDSN())
}
