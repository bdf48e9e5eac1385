package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/quake-alert-service/internal/domain"
)

// Source adapter names accepted in SOURCE.
const (
	SourceSeismicPortal = "seismicportal"
	SourceTMDWeb        = "tmdweb"
)

// Bangkok, the default center point for the distance policy.
const (
	defaultCenterLat = 13.7563
	defaultCenterLon = 100.5018
)

// defaultFeedBBox is the regional prefilter sent to the FDSN feed when no
// BBOX override is set. The page source needs none; it is regional already.
const defaultFeedBBox = "5,30,85,110"

// Config holds all service settings, populated from environment variables.
type Config struct {
	Source        string
	SourceURL     string
	FetchTimeout  time.Duration
	PollInterval  time.Duration
	FeedWindow    time.Duration
	Policy        domain.Policy
	DedupTTL      time.Duration
	RedisURL      string
	TelegramToken string
	TelegramChat  string
	NotifyTimeout time.Duration

	// Kafka fan-out; active only when KafkaAlertTopic is set.
	KafkaBrokers    []string
	KafkaAlertTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. Policy defaults follow the source: the FDSN feed is already
// server-filtered, so its magnitude floor is 0; the warning page is not, so
// it gets a floor of 4.0.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	source := sharedcfg.EnvOrDefault("SOURCE", SourceSeismicPortal)
	if source != SourceSeismicPortal && source != SourceTMDWeb {
		return nil, fmt.Errorf("unknown SOURCE %q", source)
	}

	pollInterval, err := parseDuration("POLL_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := parseDuration("NOTIFY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	feedWindow, err := parseDuration("FEED_WINDOW", "24h")
	if err != nil {
		return nil, err
	}
	dedupTTL, err := parseDuration("DEDUP_TTL", "24h")
	if err != nil {
		return nil, err
	}

	policy, err := loadPolicy(source)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Source:        source,
		SourceURL:     os.Getenv("SOURCE_URL"),
		FetchTimeout:  fetchTimeout,
		PollInterval:  pollInterval,
		FeedWindow:    feedWindow,
		Policy:        policy,
		DedupTTL:      dedupTTL,
		RedisURL:      os.Getenv("REDIS_URL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		TelegramChat:  os.Getenv("TELEGRAM_CHAT_ID"),
		NotifyTimeout: notifyTimeout,

		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_TOKEN is required")
	}
	if cfg.TelegramChat == "" {
		return nil, errors.New("TELEGRAM_CHAT_ID is required")
	}
	if cfg.KafkaAlertTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ALERT_TOPIC is set")
	}

	return cfg, nil
}

func loadPolicy(source string) (domain.Policy, error) {
	minMagDefault := "0"
	bboxDefault := defaultFeedBBox
	if source == SourceTMDWeb {
		minMagDefault = "4.0"
		bboxDefault = ""
	}

	minMagnitude, err := parseFloat("MIN_MAGNITUDE", minMagDefault)
	if err != nil {
		return domain.Policy{}, err
	}
	maxDistance, err := parseFloat("MAX_DISTANCE_KM", "2000")
	if err != nil {
		return domain.Policy{}, err
	}
	centerLat, err := parseFloat("CENTER_LAT", strconv.FormatFloat(defaultCenterLat, 'f', -1, 64))
	if err != nil {
		return domain.Policy{}, err
	}
	centerLon, err := parseFloat("CENTER_LON", strconv.FormatFloat(defaultCenterLon, 'f', -1, 64))
	if err != nil {
		return domain.Policy{}, err
	}
	bounds, err := parseBBox(sharedcfg.EnvOrDefault("BBOX", bboxDefault))
	if err != nil {
		return domain.Policy{}, err
	}

	if minMagnitude < 0 {
		return domain.Policy{}, errors.New("MIN_MAGNITUDE must be >= 0")
	}
	if maxDistance < 0 {
		return domain.Policy{}, errors.New("MAX_DISTANCE_KM must be >= 0")
	}
	if centerLat < -90 || centerLat > 90 || centerLon < -180 || centerLon > 180 {
		return domain.Policy{}, errors.New("CENTER_LAT/CENTER_LON out of range")
	}

	return domain.Policy{
		MinMagnitude:       minMagnitude,
		Center:             domain.Geo{Lat: centerLat, Lon: centerLon},
		MaxDistanceKm:      maxDistance,
		Bounds:             bounds,
		AllowMissingCoords: os.Getenv("ALLOW_MISSING_COORDS") == "true",
	}, nil
}

// parseBBox parses "minlat,maxlat,minlon,maxlon". Empty disables the box.
func parseBBox(value string) (*domain.BoundingBox, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("BBOX must be four comma-separated floats, got %q", value)
	}
	floats := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid BBOX component %q", part)
		}
		floats[i] = v
	}
	box := &domain.BoundingBox{MinLat: floats[0], MaxLat: floats[1], MinLon: floats[2], MaxLon: floats[3]}
	if box.MinLat >= box.MaxLat || box.MinLon >= box.MaxLon {
		return nil, fmt.Errorf("BBOX is empty: %q", value)
	}
	return box, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
