package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/groups"
	"github.com/desertthunder/solotter/internal/repositories"
	"github.com/desertthunder/solotter/internal/services"
	"github.com/desertthunder/solotter/internal/shared"
	"github.com/desertthunder/solotter/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	twitter    *services.TwitterService
	snapshots  *repositories.SnapshotRepository
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Twitter    *services.TwitterService
	Snapshots  *repositories.SnapshotRepository
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		twitter:    opts.Twitter,
		snapshots:  opts.Snapshots,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// NewTwitterService builds a Twitter client from config: user context when an access token is configured,
// app-only otherwise.
func NewTwitterService(ctx context.Context, config *shared.Config, logger *log.Logger) (*services.TwitterService, error) {
	creds := config.Credentials.Twitter

	var (
		httpClient *http.Client
		err        error
	)
	if creds.HasUserToken() {
		httpClient, err = services.UserClient(ctx, creds)
	} else {
		logger.Debug("no access token configured, using app-only auth")
		httpClient, err = services.AppClient(ctx, creds, services.AppTokenURL)
	}
	if err != nil {
		return nil, err
	}

	return services.NewTwitterService(httpClient, serviceOptions(config, logger)...), nil
}

func serviceOptions(config *shared.Config, logger *log.Logger) []services.Option {
	opts := []services.Option{
		services.WithRateLimit(config.Twitter.RequestsPerSecond),
		services.WithMaxRetries(config.Twitter.MaxRetries),
		services.WithLogger(shared.WithLogger(logger, "component", "twitter")),
	}
	if config.Twitter.BaseURL != "" {
		opts = append(opts, services.WithBaseURL(config.Twitter.BaseURL))
	}
	return opts
}

func (r *Runner) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// Before applies global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tweetCommand, groupsCommand, snapshotsCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. to keep log lines out of the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.twitter != nil {
		r.twitter.SetLogger(shared.WithLogger(logger, "component", "twitter"))
	}
}

// Close releases the snapshot database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// requireTwitter returns the Twitter client or explains how to configure one.
func (r *Runner) requireTwitter() (*services.TwitterService, error) {
	if r.twitter == nil {
		return nil, fmt.Errorf("%w: set credentials.twitter.consumer_key and consumer_secret in %s", shared.ErrServiceUnavailable, r.configName())
	}
	return r.twitter, nil
}

// snapshotStore opens the snapshot history on first use.
func (r *Runner) snapshotStore(ctx context.Context) (*repositories.SnapshotRepository, error) {
	if r.snapshots != nil {
		return r.snapshots, nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.snapshots = repositories.NewSnapshotRepository(db)
	return r.snapshots, nil
}

// engine builds a [tasks.GroupEngine] for the configured account. Snapshot history is attached when the
// database can be opened; otherwise the engine runs without it.
func (r *Runner) engine(ctx context.Context, withHistory bool) (*tasks.GroupEngine, error) {
	twitter, err := r.requireTwitter()
	if err != nil {
		return nil, err
	}

	opts := []tasks.EngineOption{
		tasks.WithLogger(shared.WithLogger(r.logger, "component", "engine")),
		tasks.WithGroupOptions(groups.WithPageSize(r.config.Twitter.PageSize), groups.WithChunkSize(r.config.Twitter.ChunkSize)),
	}
	if withHistory {
		if store, err := r.snapshotStore(ctx); err != nil {
			r.logger.Warn("snapshot history unavailable", "error", err)
		} else {
			opts = append(opts, tasks.WithSnapshots(store))
		}
	}

	return tasks.NewGroupEngine(twitter, r.config.Credentials.Twitter.ScreenName, opts...), nil
}

func (r *Runner) configName() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// streamProgress prints progress updates until the returned stop function is called.
func (r *Runner) streamProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchGroups, tasks.FetchMembers:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Compare:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.Backup:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.RemoveMembers, tasks.AddMembers:
				r.writePlain("📝 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()
	return progress, func() {
		close(progress)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
