package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Scoring      ScoringConfig      `mapstructure:"scoring"`
	Gamification GamificationConfig `mapstructure:"gamification"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScoringConfig holds the tunable parameters of the health score calculator
// and trend analyzer. Weights must sum to 1.
type ScoringConfig struct {
	NutritionWeight    float64 `mapstructure:"nutrition_weight"`
	ActivityWeight     float64 `mapstructure:"activity_weight"`
	HydrationWeight    float64 `mapstructure:"hydration_weight"`
	FastingWeight      float64 `mapstructure:"fasting_weight"`
	CalorieTolerance   float64 `mapstructure:"calorie_tolerance"`
	TrendThreshold     float64 `mapstructure:"trend_threshold"`
	VolatilityCeiling  float64 `mapstructure:"volatility_ceiling"`
	TrendBucketDays    int     `mapstructure:"trend_bucket_days"`
	HistoryWindowDays  int     `mapstructure:"history_window_days"`
	KetosisThresholdHr float64 `mapstructure:"ketosis_threshold_hours"`
}

// GamificationConfig holds the tunable parameters of the progression engine.
type GamificationConfig struct {
	LevelCurveBase       float64 `mapstructure:"level_curve_base"`
	PointsPerEvent       int     `mapstructure:"points_per_event"`
	ChallengeBonusPoints int     `mapstructure:"challenge_bonus_points"`
	XPFoodLogged         int     `mapstructure:"xp_food_logged"`
	XPExerciseDone       int     `mapstructure:"xp_exercise_done"`
	XPWaterLogged        int     `mapstructure:"xp_water_logged"`
	XPFastCompleted      int     `mapstructure:"xp_fast_completed"`
	XPFastAttempted      int     `mapstructure:"xp_fast_attempted"`
}

// DefaultScoring returns the scoring parameters used when no config file
// overrides them. The weights favor nutrition slightly because calorie
// logging is the app's primary signal.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		NutritionWeight:    0.30,
		ActivityWeight:     0.25,
		HydrationWeight:    0.20,
		FastingWeight:      0.25,
		CalorieTolerance:   0.15,
		TrendThreshold:     5.0,
		VolatilityCeiling:  150.0,
		TrendBucketDays:    7,
		HistoryWindowDays:  28,
		KetosisThresholdHr: 18.0,
	}
}

// DefaultGamification returns the progression parameters used when no config
// file overrides them.
func DefaultGamification() GamificationConfig {
	return GamificationConfig{
		LevelCurveBase:       100,
		PointsPerEvent:       10,
		ChallengeBonusPoints: 50,
		XPFoodLogged:         10,
		XPExerciseDone:       25,
		XPWaterLogged:        5,
		XPFastCompleted:      50,
		XPFastAttempted:      15,
	}
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// If CONFIG_FILE environment variable is set, use it
	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		ext := filepath.Ext(file)
		name := strings.TrimSuffix(file, ext)

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./pkg/config")
		v.SetConfigName("config")
	}

	setDefaults(v)

	// A missing config file is fine, defaults and env vars cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envVars := map[string]string{
		"server.port":       "SERVER_PORT",
		"server.mode":       "SERVER_MODE",
		"server.timeout":    "SERVER_TIMEOUT",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
		"database.sslmode":  "DB_SSLMODE",
		"redis.host":        "REDIS_HOST",
		"redis.port":        "REDIS_PORT",
		"redis.password":    "REDIS_PASSWORD",
		"redis.db":          "REDIS_DB",
		"logging.level":     "LOG_LEVEL",
		"logging.format":    "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			switch envVar {
			case "SERVER_PORT", "DB_PORT", "REDIS_PORT", "REDIS_DB":
				if intVal, err := strconv.Atoi(value); err == nil {
					v.Set(configKey, intVal)
				}
			case "SERVER_TIMEOUT":
				if d, err := time.ParseDuration(value); err == nil {
					v.Set(configKey, d)
				}
			default:
				v.Set(configKey, value)
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.timeout", 15*time.Second)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	sc := DefaultScoring()
	v.SetDefault("scoring.nutrition_weight", sc.NutritionWeight)
	v.SetDefault("scoring.activity_weight", sc.ActivityWeight)
	v.SetDefault("scoring.hydration_weight", sc.HydrationWeight)
	v.SetDefault("scoring.fasting_weight", sc.FastingWeight)
	v.SetDefault("scoring.calorie_tolerance", sc.CalorieTolerance)
	v.SetDefault("scoring.trend_threshold", sc.TrendThreshold)
	v.SetDefault("scoring.volatility_ceiling", sc.VolatilityCeiling)
	v.SetDefault("scoring.trend_bucket_days", sc.TrendBucketDays)
	v.SetDefault("scoring.history_window_days", sc.HistoryWindowDays)
	v.SetDefault("scoring.ketosis_threshold_hours", sc.KetosisThresholdHr)

	gc := DefaultGamification()
	v.SetDefault("gamification.level_curve_base", gc.LevelCurveBase)
	v.SetDefault("gamification.points_per_event", gc.PointsPerEvent)
	v.SetDefault("gamification.challenge_bonus_points", gc.ChallengeBonusPoints)
	v.SetDefault("gamification.xp_food_logged", gc.XPFoodLogged)
	v.SetDefault("gamification.xp_exercise_done", gc.XPExerciseDone)
	v.SetDefault("gamification.xp_water_logged", gc.XPWaterLogged)
	v.SetDefault("gamification.xp_fast_completed", gc.XPFastCompleted)
	v.SetDefault("gamification.xp_fast_attempted", gc.XPFastAttempted)
}
