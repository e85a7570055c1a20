package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/russellkim98/RKADE-sync/internal/downloader"
	"github.com/russellkim98/RKADE-sync/internal/matcher"
	"github.com/russellkim98/RKADE-sync/internal/repositories"
	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
	"github.com/russellkim98/RKADE-sync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Service
	ytmusic    *services.YTMusicService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	// Lazily initialized by ensureEngine. Commands that only talk to the
	// Spotify API never touch the database.
	db        *sql.DB
	downloads *repositories.DownloadRepository
	runs      *repositories.RunRepository
	archive   *repositories.ArchiveAdapter
	engine    tasks.SyncEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Service
	YTMusic    *services.YTMusicService
	Engine     tasks.SyncEngine
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		ytmusic:    opts.YTMusic,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, spotifyCommand, ytmusicCommand, syncCommand, exportCommand, archiveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureEngine opens the database and wires the full sync pipeline on first use.
func (r *Runner) ensureEngine() error {
	if r.engine != nil {
		return nil
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if r.ytmusic == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	m := matcher.NewMatcher(r.config.Matcher, r.logger)
	dl := downloader.NewYtdlpDownloader(r.config.Downloader)
	tr := downloader.NewTranscoder(r.config.Downloader)

	r.engine = tasks.NewLibraryEngine(
		r.spotify, r.ytmusic, m, dl, tr,
		r.archive, r.runs,
		r.config.Library, r.config.Downloader, r.config.YTPlaylists,
		r.logger,
	)

	return nil
}

// openDatabase opens the sqlite archive and constructs the repositories.
func (r *Runner) openDatabase() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.downloads = repositories.NewDownloadRepository(db)
	r.runs = repositories.NewRunRepository(db)
	r.archive = repositories.NewArchiveAdapter(r.downloads)

	return nil
}

// Close releases the database connection if one was opened.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
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
