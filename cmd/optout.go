package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-campaigns/app/suppress"
	"github.com/vibast-solutions/ms-go-campaigns/config"
)

var optoutCmd = &cobra.Command{
	Use:   "optout",
	Short: "Manage the shared opt-out list",
	Long:  "Manage the Redis-backed recipient opt-out list consulted by every campaign run.",
}

// init registers optout subcommands.
func init() {
	optoutCmd.AddCommand(optoutAddCmd)
	optoutCmd.AddCommand(optoutCheckCmd)
	optoutCmd.AddCommand(optoutListCmd)
	rootCmd.AddCommand(optoutCmd)
}

var optoutAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Record a recipient opt-out",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		list, cleanup := mustOptoutList()
		defer cleanup()

		if err := list.Add(context.Background(), args[0]); err != nil {
			logrus.WithError(err).Fatal("failed to record opt-out")
		}
		fmt.Printf("%s added to the opt-out list\n", args[0])
	},
}

var optoutCheckCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Check whether a recipient has opted out",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		list, cleanup := mustOptoutList()
		defer cleanup()

		out, err := list.Contains(context.Background(), args[0])
		if err != nil {
			logrus.WithError(err).Fatal("failed to check opt-out list")
		}
		if out {
			fmt.Printf("%s has opted out\n", args[0])
		} else {
			fmt.Printf("%s has not opted out\n", args[0])
		}
	},
}

var optoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every opted-out recipient",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		list, cleanup := mustOptoutList()
		defer cleanup()

		members, err := list.Members(context.Background())
		if err != nil {
			logrus.WithError(err).Fatal("failed to read opt-out list")
		}
		for _, m := range members {
			fmt.Println(m)
		}
	},
}

// mustOptoutList connects to the configured Redis or exits.
func mustOptoutList() (*suppress.RedisList, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.RedisAddr == "" {
		logrus.Fatal("REDIS_ADDR is not configured; the opt-out list needs Redis")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}

	return suppress.NewRedisList(rdb), func() { _ = rdb.Close() }
}
