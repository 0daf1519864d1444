package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/lpforge/lpforge/internal/server"
	"github.com/lpforge/lpforge/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the studio server with the browser editing UI",
	Long:  `Starts the lpforge studio: a JSON API, an embedded browser UI and a websocket preview channel for generating and editing landing pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: true})
		store := session.NewStore()

		r := srv.Router()
		r.Group(func(api chi.Router) {
			// Generation calls can take minutes; the websocket route
			// stays outside this group so it is never cut off.
			api.Use(middleware.Timeout(10 * time.Minute))
			session.RegisterRoutes(api, store, engine, session.Defaults{
				Theme:       cfg.Theme,
				Temperature: cfg.Temperature,
				Brief:       cfg.Site.Brief(),
			})
		})
		session.RegisterWS(r, store)
		r.Get("/", session.ServeIndex)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down studio...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "lpforge studio v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Theme: %s\n", cfg.Theme)
		fmt.Fprintf(os.Stderr, "  Open http://localhost:%d in your browser\n", cfg.Port)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
