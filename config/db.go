package config

import (
	"fmt"

	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the Postgres connection backing the catalog repository
// gateway. It is the consolidated successor of the teacher's two competing
// ConnectDB definitions (core/database.go and core/dbconfig.go, which both
// declared `var DB *gorm.DB` against the same package) — this is the single
// copy, parameterized by Config instead of re-reading os.Getenv internally.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if cfg.Environment != "test" {
		NewLogger().Info("connected to database", zap.String("environment", cfg.Environment))
	}

	return db, nil
}

// NewLogger builds the console zap logger the teacher wires up around its
// database connection, reused here as the process-wide structured logger.
func NewLogger() *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(colorable.NewColorableStdout()),
		zapcore.DebugLevel,
	))
}
