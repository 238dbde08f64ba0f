package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"strconv"
)

// MatchWeights are the tunable sub-score weights of the matching engine.
// They must sum to 1.0.
type MatchWeights struct {
	Amount   float64
	Duration float64
	Rate     float64
	Risk     float64
}

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Matching engine tunables.
	Weights       MatchWeights
	MatchMinScore float64
	MatchTopN     int

	// Payment tracker tunables.
	LateFeeDailyRate float64 // fraction of installment total, per late day
	LateFeeCap       float64 // absolute cap per installment, 0 = uncapped
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "p2plending"),
		MySQLUser: getenv("MYSQL_USER", "p2plending"),
		MySQLPass: getenv("MYSQL_PASS", "p2plending"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		Weights: MatchWeights{
			Amount:   getfloat("MATCH_WEIGHT_AMOUNT", 0.25),
			Duration: getfloat("MATCH_WEIGHT_DURATION", 0.20),
			Rate:     getfloat("MATCH_WEIGHT_RATE", 0.30),
			Risk:     getfloat("MATCH_WEIGHT_RISK", 0.25),
		},
		MatchMinScore: getfloat("MATCH_MIN_SCORE", 50),
		MatchTopN:     getint("MATCH_TOP_N", 10),

		LateFeeDailyRate: getfloat("LATE_FEE_DAILY_RATE", 0.0005), // 0.05%/day
		LateFeeCap:       getfloat("LATE_FEE_CAP", 200_000),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	w := c.Weights
	if sum := w.Amount + w.Duration + w.Rate + w.Risk; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("match weights must sum to 1.0, got %v", sum)
	}
	if c.MatchTopN <= 0 {
		return errors.New("MATCH_TOP_N must be positive")
	}
	if c.LateFeeDailyRate < 0 || c.LateFeeCap < 0 {
		return errors.New("late fee settings must be non-negative")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
