package server

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	JwtSecret string

	AwsRegion            string
	GameRecordsTableName string
	UserStatsTableName   string
}

func NewConfig() Config {
	var config Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	// Secrets and deployment specifics come from the environment.
	viper.AutomaticEnv()
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("AWS_REGION")
	viper.BindEnv("GAME_RECORDS_TABLE_NAME")
	viper.BindEnv("USER_STATS_TABLE_NAME")

	config.Port = viper.GetString("Server.Port")
	config.JwtSecret = viper.GetString("JWT_SECRET")
	if config.JwtSecret == "" {
		config.JwtSecret = viper.GetString("Auth.JwtSecret")
	}
	config.AwsRegion = viper.GetString("AWS_REGION")
	config.GameRecordsTableName = viper.GetString("GAME_RECORDS_TABLE_NAME")
	if config.GameRecordsTableName == "" {
		config.GameRecordsTableName = viper.GetString("Storage.GameRecordsTableName")
	}
	config.UserStatsTableName = viper.GetString("USER_STATS_TABLE_NAME")
	if config.UserStatsTableName == "" {
		config.UserStatsTableName = viper.GetString("Storage.UserStatsTableName")
	}

	return config
}
