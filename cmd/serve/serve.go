// Package serve implements the serve command which runs the HTTP API
// server until interrupted.
package serve

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	api "github.com/greenpulse/greenpulse-go/internal/api/v2"
	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/events"
	"github.com/greenpulse/greenpulse-go/internal/mqtt"
	"github.com/greenpulse/greenpulse-go/internal/observability"
)

// Command creates a new command to run the HTTP API server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the GreenPulse HTTP API server",
		Long:  "Start serving the emissions ingest, analytics, forecast and report API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer(settings)
		},
	}

	// Set up flags specific to the 'serve' command
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the HTTP API server")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

// RunServer starts the API server and blocks until a termination signal
// or an unrecoverable server error.
func RunServer(settings *conf.Settings) error {
	// Print platform details, helps reading ops logs from mixed fleets.
	if info, err := host.Info(); err == nil {
		fmt.Printf("System details: %s %s %s\n", info.OS, info.Platform, info.PlatformVersion)
	}

	fmt.Printf("Starting GreenPulse %s. Port: %s, telemetry: %v\n",
		settings.Version, settings.WebServer.Port, settings.Telemetry.Enabled)

	// Initialize database access.
	if err := datastore.InitializeLogger(""); err != nil {
		log.Printf("Datastore logging degraded: %v", err)
	}
	dataStore := datastore.New(settings)
	if err := dataStore.Open(); err != nil {
		return err
	}
	defer closeDataStore(dataStore)

	// Initialize Prometheus metrics manager
	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("error initializing metrics: %w", err)
	}

	// Route enhanced errors to the async log sink so error construction
	// never blocks a request path.
	eventBus, err := events.InitializeErrorReporting(nil)
	if err != nil {
		log.Printf("Error initializing error reporting: %v", err)
	}
	if eventBus != nil {
		defer func() {
			if err := eventBus.Shutdown(5 * time.Second); err != nil {
				log.Printf("Event bus shutdown: %v", err)
			}
		}()
	}

	// quitChan is used to signal the goroutines to stop.
	quitChan := make(chan struct{})
	var wg sync.WaitGroup

	// Start the MQTT publisher when the integration is enabled.
	publisher := mqtt.NewPublisher(settings, metrics)
	if publisher.Enabled() {
		publisher.Start(context.Background())
		defer publisher.Stop()
	}

	// Initialize and start the HTTP server.
	e := echo.New()
	e.HideBanner = true

	controller, err := api.New(e, dataStore, settings, log.Default(), metrics,
		api.WithPublisher(publisher))
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		if err := e.Start(":" + settings.WebServer.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	fmt.Printf("HTTP server started on port %s\n", settings.WebServer.Port)

	// start telemetry endpoint
	startTelemetryEndpoint(&wg, settings, metrics, quitChan)

	// start quit signal monitor
	monitorCtrlC(quitChan)

	select {
	case <-quitChan:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown: %v", err)
		}
		controller.Shutdown()
		// Wait for the telemetry endpoint and other goroutines to finish.
		wg.Wait()
		return nil

	case err := <-errChan:
		close(quitChan)
		controller.Shutdown()
		wg.Wait()
		return err
	}
}

// startTelemetryEndpoint starts the Prometheus metrics endpoint if enabled.
func startTelemetryEndpoint(wg *sync.WaitGroup, settings *conf.Settings, metrics *observability.Metrics, quitChan chan struct{}) {
	if !settings.Telemetry.Enabled {
		return
	}

	telemetryEndpoint, err := observability.NewEndpoint(settings, metrics)
	if err != nil {
		log.Printf("Error initializing telemetry endpoint: %v", err)
		return
	}

	// Start metrics server
	telemetryEndpoint.Start(wg, quitChan)
}

// monitorCtrlC listens for SIGINT and SIGTERM and triggers the shutdown process.
func monitorCtrlC(quitChan chan struct{}) {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		<-sigChan // Block until a signal is received

		log.Println("Received shutdown signal, stopping server")
		close(quitChan) // Close the quit channel to signal other goroutines to stop
	}()
}

// closeDataStore attempts to close the database connection and logs the result.
func closeDataStore(store datastore.Interface) {
	if err := store.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	} else {
		log.Println("Successfully closed database")
	}
	if err := datastore.CloseLogger(); err != nil {
		log.Printf("Failed to close datastore log: %v", err)
	}
}
