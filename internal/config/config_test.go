package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDRESS", "SQLITE_PATH", "HISTORY_DRIVER", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"DEFAULT_TOP_N", "MAX_UPLOAD_MB", "LOG_LEVEL", "SHOW_TYPING",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, "./data/dashboard.db", cfg.SQLitePath)
	require.Equal(t, HistorySQLite, cfg.HistoryDriver)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "activity.reports", cfg.KafkaTopic)
	require.Equal(t, 5, cfg.DefaultTopN)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	require.Equal(t, "INFO", cfg.LogLevel)
	require.False(t, cfg.ShowTyping)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HISTORY_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("DEFAULT_TOP_N", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHOW_TYPING", "true")
	t.Setenv("REPLY_DELAY_MIN_MS", "250")

	cfg := FromEnv()
	require.Equal(t, HistoryPostgres, cfg.HistoryDriver)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 8, cfg.DefaultTopN)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.True(t, cfg.ShowTyping)
	require.Equal(t, 250, cfg.ReplyDelayMinMs)
}

func TestFromEnvClampsAndFallsBack(t *testing.T) {
	t.Setenv("HISTORY_DRIVER", "mysql")
	t.Setenv("DEFAULT_TOP_N", "50")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg := FromEnv()
	require.Equal(t, HistorySQLite, cfg.HistoryDriver)
	require.Equal(t, 10, cfg.DefaultTopN)
	require.Equal(t, 10, cfg.MaxUploadMB)

	t.Setenv("DEFAULT_TOP_N", "1")
	require.Equal(t, 3, FromEnv().DefaultTopN)
}
