package cmd

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-campaigns/app/audit"
	"github.com/vibast-solutions/ms-go-campaigns/app/campaign"
	"github.com/vibast-solutions/ms-go-campaigns/app/controller"
	"github.com/vibast-solutions/ms-go-campaigns/app/preparer"
	"github.com/vibast-solutions/ms-go-campaigns/app/provider"
	"github.com/vibast-solutions/ms-go-campaigns/app/source"
	"github.com/vibast-solutions/ms-go-campaigns/app/suppress"
	"github.com/vibast-solutions/ms-go-campaigns/config"
)

var runFlags struct {
	mode    string
	format  string
	logPath string
	dryRun  bool
	yes     bool
	serve   bool
}

var runCmd = &cobra.Command{
	Use:   "run <csv-file>",
	Short: "Run a campaign from a CSV file",
	Long:  "Load recipient rows from a CSV file, validate them, and dispatch the campaign in paced rounds of unique senders.",
	Args:  cobra.ExactArgs(1),
	Run:   runCampaign,
}

// init registers the run command and its flags.
func init() {
	runCmd.Flags().StringVar(&runFlags.mode, "mode", "first-touch", "campaign mode: first-touch or follow-up")
	runCmd.Flags().StringVar(&runFlags.format, "format", "mixed", "body format: mixed, verdana or plain")
	runCmd.Flags().StringVar(&runFlags.logPath, "log", "", "audit log path (default sent_log_<timestamp>.csv)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "build everything but do not deliver")
	runCmd.Flags().BoolVarP(&runFlags.yes, "yes", "y", false, "skip the confirmation prompt")
	runCmd.Flags().BoolVar(&runFlags.serve, "serve", false, "serve campaign progress over HTTP while running")
	rootCmd.AddCommand(runCmd)
}

// runCampaign wires dependencies and drives one campaign run end to end.
func runCampaign(_ *cobra.Command, args []string) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	format, err := preparer.ParseFormat(runFlags.format)
	if err != nil {
		log.WithError(err).Fatal("invalid format")
	}

	var (
		name    string
		builder preparer.Builder
	)
	switch runFlags.mode {
	case "first-touch":
		name = "First Touch"
		builder = preparer.NewFirstTouchBuilder(format)
	case "follow-up":
		name = "Follow-Up"
		builder = preparer.NewFollowUpBuilder(format)
	default:
		log.Fatalf("unsupported mode %q (want first-touch or follow-up)", runFlags.mode)
	}

	data, err := source.Load(args[0])
	if err != nil {
		log.WithError(err).Fatal("failed to read csv")
	}
	if problems := source.Validate(data.Rows); len(problems) > 0 {
		for _, p := range problems {
			log.Error(p)
		}
		log.Fatalf("csv validation failed: %d problem(s)", len(problems))
	}

	optedOut := source.OptedOutCount(data.Rows)
	runID := uuid.NewString()
	logPath := runFlags.logPath
	if logPath == "" {
		logPath = fmt.Sprintf("sent_log_%s.csv", time.Now().Format("20060102_150405"))
	}

	printSummary(cfg, name, len(data.Rows), optedOut, logPath)
	if !runFlags.yes && !confirm(len(data.Rows)-optedOut) {
		log.Info("campaign cancelled")
		return
	}

	prov, err := buildProvider(cfg, runFlags.dryRun)
	if err != nil {
		log.WithError(err).Fatal("failed to build email provider")
	}

	csvSink, err := audit.NewCSVSink(logPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open audit log")
	}
	defer csvSink.Close()

	sink := audit.Sink(csvSink)
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.MySQLMaxOpen)
		db.SetMaxIdleConns(cfg.MySQLMaxIdle)
		db.SetConnMaxLifetime(cfg.MySQLMaxLife)

		if err := db.Ping(); err != nil {
			log.WithError(err).Fatal("failed to ping database")
		}
		sink = audit.MultiSink{csvSink, audit.NewMySQLSink(db, runID)}
	}

	var suppressed suppress.List = suppress.NoopList{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		suppressed = suppress.NewRedisList(rdb)
	}

	scheduler := campaign.New(campaign.Config{
		Name:         name,
		RunID:        runID,
		RoundSize:    cfg.RoundSize,
		TaskDelayMin: cfg.TaskDelayMin,
		TaskDelayMax: cfg.TaskDelayMax,
		PaceMin:      cfg.PaceMin,
		PaceMax:      cfg.PaceMax,
		TaskTimeout:  cfg.TaskTimeout,
		SendsPerSec:  cfg.SendsPerSec,
	}, format, builder, prov, sink, suppressed, log)

	var progressServer *echo.Echo
	if runFlags.serve {
		progressServer = setupProgressServer(scheduler)
		go func() {
			addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
			if err := progressServer.Start(addr); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("progress server error")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Warn("shutdown signal received: finishing the current round, no new rounds will start")
		cancel()
	}()

	started := time.Now()
	runErr := scheduler.Run(ctx, data.Rows)

	if progressServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = progressServer.Shutdown(shutdownCtx)
	}

	snap := scheduler.Progress()
	fmt.Println()
	if runErr != nil {
		fmt.Printf("Campaign interrupted after %s. Partial results saved in %s\n", time.Since(started).Round(time.Second), logPath)
	} else {
		fmt.Printf("Campaign complete in %s. Log file: %s\n", time.Since(started).Round(time.Second), logPath)
	}
	fmt.Printf("  Sent: %d  Failed: %d  Skipped: %d (of %d)\n", snap.Sent, snap.Failed, snap.Skipped, snap.Total)
	if blocked := scheduler.BlockedSenders(); len(blocked) > 0 {
		fmt.Printf("  Blocked senders (%d):\n", len(blocked))
		for _, s := range blocked {
			fmt.Printf("    - %s\n", s)
		}
	}
}

// printSummary shows what is about to happen before the confirmation prompt.
func printSummary(cfg *config.Config, name string, total, optedOut int, logPath string) {
	active := total - optedOut
	rounds := (active + cfg.RoundSize - 1) / cfg.RoundSize
	estimated := time.Duration(rounds)*cfg.TaskDelayMax + time.Duration(max(rounds-1, 0))*(cfg.PaceMin+cfg.PaceMax)/2

	fmt.Println("Campaign summary:")
	fmt.Printf("  Type: %s\n", name)
	fmt.Printf("  Total rows: %d\n", total)
	if optedOut > 0 {
		fmt.Printf("  Opted out (will skip): %d\n", optedOut)
		fmt.Printf("  Active sends: %d\n", active)
	}
	fmt.Printf("  Round size: %d\n", cfg.RoundSize)
	fmt.Printf("  Per-send delay: %s-%s\n", cfg.TaskDelayMin, cfg.TaskDelayMax)
	fmt.Printf("  Pause between rounds: %s-%s\n", cfg.PaceMin, cfg.PaceMax)
	fmt.Printf("  Estimated duration: ~%s\n", estimated.Round(time.Minute))
	fmt.Printf("  Log file: %s\n", logPath)
}

// confirm asks the operator to proceed.
func confirm(active int) bool {
	fmt.Printf("\nProceed to send %d emails? (y/N): ", active)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// setupProgressServer configures the Echo progress endpoint.
func setupProgressServer(scheduler *campaign.Scheduler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())

	progress := controller.NewProgressController(scheduler)
	e.GET("/progress", progress.Progress)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}

// buildProvider picks the transport from configuration.
func buildProvider(cfg *config.Config, dryRun bool) (provider.Provider, error) {
	if dryRun {
		return provider.NewNoopProvider(), nil
	}
	switch strings.ToLower(cfg.EmailProvider) {
	case "", "smtp":
		return provider.NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort), nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		return provider.NewSESProvider(awsCfg), nil
	case "noop":
		return provider.NewNoopProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported EMAIL_PROVIDER: %s", cfg.EmailProvider)
	}
}
