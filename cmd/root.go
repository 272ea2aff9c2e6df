package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ticket_rehearsal/application/captcha"
	"ticket_rehearsal/application/flow"
	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
	"ticket_rehearsal/infrastructure/browser"
	"ticket_rehearsal/infrastructure/debug"
	"ticket_rehearsal/infrastructure/ocr"
	"ticket_rehearsal/presentation/terminal"
)

var (
	baseURL      string
	seconds      int
	headless     bool
	slowmoMillis int
	timeoutMS    int
	price        string
	quantity     int
	tesseract    string
	artifactsDir string
	autoSetup    bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "ticket-rehearsal",
	Short: "Rehearses a ticket purchase on the practice site",
	Long: "ticket-rehearsal drives the ticket-training practice site through a full\n" +
		"purchase: overlays, countdown, seat and quantity, captcha, and checkout.\n" +
		"It is a training tool for rehearsing the flow, not for real sales.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&baseURL, "url", "https://ticket-training.onrender.com/", "Practice site homepage")
	rootCmd.Flags().IntVar(&seconds, "seconds", 3, "Countdown seconds entered on the setup page")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	rootCmd.Flags().IntVar(&slowmoMillis, "slowmo", 0, "Slow motion delay in ms for debugging")
	rootCmd.Flags().IntVar(&timeoutMS, "timeout", 15000, "Default timeout for actions (ms)")
	rootCmd.Flags().StringVar(&price, "price", "", "Target price text (e.g. 2800 or NT$2,800)")
	rootCmd.Flags().IntVar(&quantity, "quantity", 0, "Desired ticket quantity (e.g. 2)")
	rootCmd.Flags().StringVar(&tesseract, "tesseract", "", "Path to the tesseract executable")
	rootCmd.Flags().StringVar(&artifactsDir, "artifacts", ".", "Directory for debug screenshots and captcha crops")
	rootCmd.Flags().BoolVar(&autoSetup, "auto", false, "Fill the setup page and start the countdown without prompting")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// Execute - runs the root command, translating interrupts into the
// conventional exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	var recognizer interfaces.Recognizer
	if engine, err := ocr.NewTesseract(tesseract, logger); err != nil {
		logger.Warnf("OCR unavailable, the captcha will be manual: %v", err)
	} else {
		recognizer = engine
	}

	sink, err := debug.NewSnapshot(artifactsDir, logger)
	if err != nil {
		return err
	}

	ctrl, err := browser.Launch(browser.Options{
		Headless:       headless,
		SlowMo:         time.Duration(slowmoMillis) * time.Millisecond,
		DefaultTimeout: time.Duration(timeoutMS) * time.Millisecond,
	}, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	cfg := entities.PurchaseContext{
		BaseURL:          baseURL,
		TargetPrice:      price,
		TargetQuantity:   quantity,
		CountdownSeconds: seconds,
		ActionTimeout:    time.Duration(timeoutMS) * time.Millisecond,
		Headless:         headless,
		AutoSetup:        autoSetup,
	}

	pipeline := captcha.NewPipeline(recognizer, sink, logger)
	operator := terminal.NewOperator(logger)
	controller := flow.NewController(ctrl.Page(), pipeline, operator, sink, cfg, logger)

	return controller.Run(ctx)
}
