package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-alert-service/internal/domain"
)

const (
	testToken = "123456:test-token"
	testChat  = "-1001234"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", testToken)
	t.Setenv("TELEGRAM_CHAT_ID", testChat)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceSeismicPortal, cfg.Source)
	assert.Empty(t, cfg.SourceURL)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 24*time.Hour, cfg.FeedWindow)
	assert.Equal(t, 24*time.Hour, cfg.DedupTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, testToken, cfg.TelegramToken)
	assert.Equal(t, testChat, cfg.TelegramChat)
	assert.Empty(t, cfg.KafkaAlertTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, 0.0, cfg.Policy.MinMagnitude)
	assert.Equal(t, domain.Geo{Lat: 13.7563, Lon: 100.5018}, cfg.Policy.Center)
	assert.Equal(t, 2000.0, cfg.Policy.MaxDistanceKm)
	require.NotNil(t, cfg.Policy.Bounds)
	assert.Equal(t, domain.BoundingBox{MinLat: 5, MaxLat: 30, MinLon: 85, MaxLon: 110}, *cfg.Policy.Bounds)
	assert.False(t, cfg.Policy.AllowMissingCoords)
}

func TestLoad_TMDWebDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE", SourceTMDWeb)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceTMDWeb, cfg.Source)
	assert.Equal(t, 4.0, cfg.Policy.MinMagnitude)
	assert.Nil(t, cfg.Policy.Bounds, "page source carries no bounding box by default")
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE_URL", "http://localhost:9200/feed")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FEED_WINDOW", "1h")
	t.Setenv("DEDUP_TTL", "48h")
	t.Setenv("MIN_MAGNITUDE", "5.5")
	t.Setenv("MAX_DISTANCE_KM", "500")
	t.Setenv("CENTER_LAT", "18.79")
	t.Setenv("CENTER_LON", "98.98")
	t.Setenv("BBOX", "10, 25, 90, 105")
	t.Setenv("ALLOW_MISSING_COORDS", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "quake-alerts")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9200/feed", cfg.SourceURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Hour, cfg.FeedWindow)
	assert.Equal(t, 48*time.Hour, cfg.DedupTTL)
	assert.Equal(t, 5.5, cfg.Policy.MinMagnitude)
	assert.Equal(t, 500.0, cfg.Policy.MaxDistanceKm)
	assert.Equal(t, domain.Geo{Lat: 18.79, Lon: 98.98}, cfg.Policy.Center)
	require.NotNil(t, cfg.Policy.Bounds)
	assert.Equal(t, domain.BoundingBox{MinLat: 10, MaxLat: 25, MinLon: 90, MaxLon: 105}, *cfg.Policy.Bounds)
	assert.True(t, cfg.Policy.AllowMissingCoords)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "quake-alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingTelegramToken(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", testChat)

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestLoad_MissingTelegramChat(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", testToken)

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
}

func TestLoad_UnknownSource(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE", "usgs")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown SOURCE")
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "not-a-duration")

	_, err := Load()
	assert.ErrorContains(t, err, "POLL_INTERVAL")
}

func TestLoad_NegativePollInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "-10s")

	_, err := Load()
	assert.ErrorContains(t, err, "POLL_INTERVAL")
}

func TestLoad_InvalidMinMagnitude(t *testing.T) {
	setRequired(t)
	t.Setenv("MIN_MAGNITUDE", "big")

	_, err := Load()
	assert.ErrorContains(t, err, "MIN_MAGNITUDE")
}

func TestLoad_NegativeMaxDistance(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_DISTANCE_KM", "-1")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_DISTANCE_KM")
}

func TestLoad_CenterOutOfRange(t *testing.T) {
	setRequired(t)
	t.Setenv("CENTER_LAT", "95")

	_, err := Load()
	assert.ErrorContains(t, err, "CENTER_LAT")
}

func TestLoad_BBoxWrongArity(t *testing.T) {
	setRequired(t)
	t.Setenv("BBOX", "5,30,85")

	_, err := Load()
	assert.ErrorContains(t, err, "BBOX")
}

func TestLoad_BBoxInverted(t *testing.T) {
	setRequired(t)
	t.Setenv("BBOX", "30,5,85,110")

	_, err := Load()
	assert.ErrorContains(t, err, "BBOX is empty")
}

func TestLoad_KafkaTopicWithoutBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_ALERT_TOPIC", "quake-alerts")

	_, err := Load()
	assert.ErrorContains(t, err, "KAFKA_BROKERS")
}
