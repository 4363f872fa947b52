package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "git.solsynth.dev/hypernet/teamtemp/pkg/internal"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/cache"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/database"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _____                   _____\n|_   _|__  __ _ _ __ ___|_   _|__ _ __ ___  _ __\n  | |/ _ \\/ _` | '_ ` _ \\ | |/ _ \\ '_ ` _ \\| '_ \\\n  | |  __/ (_| | | | | | || |  __/ | | | | | |_) |\n  |_|\\___|\\__,_|_| |_| |_||_|\\___|_| |_| |_| .__/\n                                           |_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.TeamTemp"), pkg.AppVersion)
	fmt.Printf("The team pulse check service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Load local secrets
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("An error occurred when loading .env file.")
	}

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("TEAMTEMP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", "0.0.0.0:8445")
	viper.SetDefault("grpc_bind", "0.0.0.0:7445")
	viper.SetDefault("database.driver", database.DriverPostgres)
	viper.SetDefault("recovery.cooldown", "10m")
	viper.SetDefault("dashboard.round_limit", services.DefaultDashboardRoundLimit)
	viper.SetDefault("analytics.round_limit", services.DefaultAnalyticsRoundLimit)

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Panic().Err(err).Msg("An error occurred when loading settings.")
		}
		log.Warn().Msg("No settings file found, running on defaults and environment.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	store := database.NewStore(database.C)
	pulse := services.NewPulse(
		store,
		services.WithLanguageDetection(services.DetectLanguage),
		services.WithRecoveryCooldown(cache.NewCooldown(cache.S, cache.R), viper.GetDuration("recovery.cooldown")),
		services.WithRoundLimits(viper.GetInt("dashboard.round_limit"), viper.GetInt("analytics.round_limit")),
	)

	// Configure timed tasks
	maxAge := viper.GetDuration("rounds.auto_close_after")
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if maxAge > 0 {
		quartz.AddFunc("@every 60m", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if count, err := pulse.CloseStaleRounds(ctx, maxAge); err != nil {
				log.Error().Err(err).Msg("An error occurred when closing stale rounds...")
			} else if count > 0 {
				log.Info().Int("count", count).Msg("Stale rounds have been closed.")
			}
		})
	}
	quartz.Start()

	// Server
	server := http.NewServer(
		api.NewHandler(pulse),
		admin.NewController(pulse, viper.GetString("security.super_admin_token"), maxAge),
	)
	go server.Listen()

	rpc := grpc.NewGrpc(store)
	go func() {
		if err := rpc.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	rpc.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
