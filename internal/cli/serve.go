package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/internal/api"
	"github.com/matzehuels/kindred/pkg/session"
)

const (
	storeMemory = "memory"
	storeFile   = "file"
	storeMongo  = "mongo"
)

// serveCommand runs the HTTP session API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		wf       worldFlags
		cf       cacheFlags
		addr     string
		store    string
		mongoURI string
		mongoDB  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve play sessions over HTTP",
		Long: `Serve starts the HTTP session API. World flags set the defaults new sessions
start from; clients may override everything except template and surname files.

Sessions are kept in memory by default. Use --store file to keep them in the
config directory, or --store mongo to share them between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defaults, err := wf.options(cmd)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cf)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			st, err := openServeStore(ctx, store, mongoURI, mongoDB)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.New(api.Config{
				Runner:   runner,
				Store:    st,
				Logger:   c.Logger,
				Defaults: defaults,
			})
			return c.listen(ctx, addr, srv.Handler())
		},
	}

	wf.register(cmd)
	cf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&store, "store", storeMemory, "session store: memory, file, mongo")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", os.Getenv("KINDRED_MONGO_URI"), "MongoDB connection URI for --store mongo")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "kindred", "MongoDB database for --store mongo")

	return cmd
}

func openServeStore(ctx context.Context, kind, mongoURI, mongoDB string) (session.Store, error) {
	switch kind {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		return openSessionStore()
	case storeMongo:
		if mongoURI == "" {
			return nil, stderrors.New("--store mongo requires --mongo-uri or KINDRED_MONGO_URI")
		}
		return session.NewMongoStore(ctx, session.MongoConfig{URI: mongoURI, Database: mongoDB})
	}
	return nil, stderrors.New("invalid store: " + kind + " (must be 'memory', 'file' or 'mongo')")
}

// listen serves h until ctx is cancelled, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	c.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
