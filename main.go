// Command ticketgame runs the train-route game server.
//
// The "serve" command starts the HTTP server with the websocket game
// endpoint and the map catalog; "mapinfo" inspects and validates a map
// without starting the server. Flags control host/port, the maps
// directory, debug logging and optional ngrok tunneling for easy
// external access during development.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"ticketgame/api"
	"ticketgame/game/config"
	"ticketgame/game/engine"
	"ticketgame/game/session"
	"ticketgame/transport/websocket"
	"ticketgame/validate"
)

const (
	Version = "1.0.0"
	AppName = "ticketgame"
)

const (
	idleGameTTL     = 30 * time.Minute
	janitorInterval = time.Minute
)

func main() {
	// Load .env if present, flags and env vars take it from there.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	cmd := &cli.Command{
		Name:    AppName,
		Usage:   "train-route building game server",
		Version: Version,
		Commands: []*cli.Command{
			serveCommand(),
			mapinfoCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "maps-dir", Usage: "directory with extra map files", Sources: cli.EnvVars("MAPS_DIR")},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, cmd)
		},
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func serve(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd.Bool("debug"))

	maps, err := config.NewManager(cmd.String("maps-dir"))
	if err != nil {
		return fmt.Errorf("failed to set up map catalog: %w", err)
	}

	registry := session.NewRegistry(maps, log)
	handler := websocket.NewHandler(registry, log)
	server := api.NewServer(registry, maps, handler, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go registry.RunJanitor(ctx, janitorInterval, idleGameTTL)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     server,
		IdleTimeout: 60 * time.Second,
	}

	errs := make(chan error, 2)
	go func() {
		log.Info().Str("addr", addr).Msgf("%s v%s listening", AppName, Version)
		log.Info().Msgf("game endpoint: ws://%s/game/{id}/ws", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	if cmd.Bool("ngrok") {
		go func() {
			if err := serveNgrok(ctx, cmd, server, log); err != nil {
				log.Error().Err(err).Msg("ngrok tunnel failed")
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errs:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown did not finish cleanly")
	}
	return nil
}

// serveNgrok exposes the server through an ngrok tunnel. Useful for
// playing with friends without deploying anywhere.
func serveNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, log zerolog.Logger) error {
	token := cmd.String("ngrok-auth")
	if token == "" {
		return fmt.Errorf("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(token))
	if err != nil {
		return err
	}
	defer tun.Close()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func mapinfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "mapinfo",
		Usage:     "inspect and validate a game map",
		ArgsUsage: "[map name]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "maps-dir", Usage: "directory with extra map files", Sources: cli.EnvVars("MAPS_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				name = engine.BuiltinMapName
			}

			maps, err := config.NewManager(cmd.String("maps-dir"))
			if err != nil {
				return err
			}
			gameMap, err := maps.Map(name)
			if err != nil {
				return err
			}

			fmt.Printf("map:           %s\n", gameMap.Name)
			fmt.Printf("cities:        %d\n", len(gameMap.Cities))
			fmt.Printf("segments:      %d\n", len(gameMap.Segments))
			fmt.Printf("total length:  %d\n", gameMap.TotalSegmentsLength())
			fmt.Printf("long tickets:  %d (%d+ points)\n", len(gameMap.LongTickets()), gameMap.LongTicketMinPoints)
			fmt.Printf("short tickets: %d (%d-%d points)\n", len(gameMap.ShortTickets()),
				gameMap.ShortTicketsPointsRange[0], gameMap.ShortTicketsPointsRange[1])

			result := validate.Map(gameMap)
			if !result.Valid {
				fmt.Println("validation:    FAILED")
				for _, e := range result.Errors {
					fmt.Printf("  - %s\n", e)
				}
				return fmt.Errorf("map %q is invalid", name)
			}
			fmt.Println("validation:    ok")
			return nil
		},
	}
}
