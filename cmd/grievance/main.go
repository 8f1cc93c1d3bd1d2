package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-grievance/internal/logging"
	"github.com/goliatone/go-grievance/internal/server"
	"github.com/goliatone/go-grievance/pkg/companion"
	"github.com/goliatone/go-grievance/pkg/packet"
	"github.com/goliatone/go-grievance/pkg/persist"
	"github.com/goliatone/go-grievance/pkg/renderers/tui"
	"github.com/goliatone/go-grievance/pkg/renderers/web"
	"github.com/goliatone/go-grievance/pkg/schema"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/validation"
)

var (
	// Global flags
	schemaPath     string
	outputDir      string
	logDir         string
	uniqueSuffix   bool
	strictBooleans bool
	verbose        bool

	// serve flags
	addr         string
	sessionTTL   time.Duration
	maxSessions  int
	templatesDir string

	// packet flags
	savePacket bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "grievance",
	Short: "BFSI grievance filing companion",
	Long: `grievance walks a complainant through a portal's grievance form, checks
the required fields, and prepares a copy/paste submission packet. Packets are
saved under outputs/ and the answers under logs/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		built, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form over HTTP",
	RunE:  runServe,
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the form interactively in the terminal",
	RunE:  runFill,
}

var packetCmd = &cobra.Command{
	Use:   "packet [session-log]",
	Short: "Rebuild a submission packet from a saved session log",
	Args:  cobra.ExactArgs(1),
	RunE:  runPacket,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the schema for structural problems",
	RunE:  runCheck,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&schemaPath, "schema", companion.DefaultSchemaPath, "schema document (file path or URL, .json or .yaml)")
	flags.StringVar(&outputDir, "outputs", persist.DefaultOutputDir, "directory for generated packets")
	flags.StringVar(&logDir, "logs", persist.DefaultLogDir, "directory for session logs")
	flags.BoolVar(&uniqueSuffix, "unique-suffix", false, "append a random suffix so same-second saves do not overwrite")
	flags.BoolVar(&strictBooleans, "strict-booleans", false, "treat unchecked required checkboxes as missing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	serveCmd.Flags().StringVar(&addr, "addr", ":8501", "HTTP listen address")
	serveCmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultIdleTTL, "Drop browser sessions idle for longer than this (0 keeps them)")
	serveCmd.Flags().IntVar(&maxSessions, "max-sessions", session.DefaultMaxSessions, "Maximum live browser sessions (0 for no cap)")
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "Directory whose templates override the bundled page and partials")
	packetCmd.Flags().BoolVar(&savePacket, "save", false, "also write the rebuilt packet and log")

	rootCmd.AddCommand(serveCmd, fillCmd, packetCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func schemaSource() (schema.Source, error) {
	src := schema.ParseSource(schemaPath)
	if src == nil {
		return nil, fmt.Errorf("invalid schema source: %q", schemaPath)
	}
	return src, nil
}

func newSink() *persist.Sink {
	return persist.NewSink(
		persist.WithOutputDir(outputDir),
		persist.WithLogDir(logDir),
		persist.WithUniqueSuffix(uniqueSuffix),
		persist.WithLogger(logger),
	)
}

func newCompanion(extra ...companion.Option) (*companion.Companion, error) {
	src, err := schemaSource()
	if err != nil {
		return nil, err
	}
	options := []companion.Option{
		companion.WithLoader(newLoader()),
		companion.WithSource(src),
		companion.WithSink(newSink()),
		companion.WithLogger(logger),
	}
	options = append(options, extra...)
	if strictBooleans {
		options = append(options, companion.WithValidationOptions(
			validation.WithBooleanPolicy(validation.BooleanPolicyRequireTrue),
		))
	}
	return companion.New(options...), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	var extra []companion.Option
	if templatesDir != "" {
		extra = append(extra, companion.WithWebOptions(web.WithTemplatesDir(templatesDir)))
	}
	comp, err := newCompanion(extra...)
	if err != nil {
		return err
	}
	// Fail fast on a broken schema; requests would all return 500 otherwise.
	if _, err := comp.Load(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(
		session.WithIdleTTL(sessionTTL),
		session.WithMaxSessions(maxSessions),
	)
	return server.New(comp,
		server.WithLogger(logger),
		server.WithSessions(store),
	).Run(ctx, addr)
}

func runFill(cmd *cobra.Command, args []string) error {
	comp, err := newCompanion()
	if err != nil {
		return err
	}
	err = tui.New(tui.WithOutput(cmd.OutOrStdout())).Run(cmd.Context(), comp, session.New())
	if tui.IsAbort(err) {
		return nil
	}
	return err
}

func runPacket(cmd *cobra.Command, args []string) error {
	entry, err := persist.LoadLog(args[0])
	if err != nil {
		return err
	}
	src, err := schemaSource()
	if err != nil {
		return err
	}
	s, err := schema.LoadSchema(cmd.Context(), newLoader(), src)
	if err != nil {
		return err
	}
	if entry.Schema != "" && entry.Schema != s.PortalID {
		logger.Warn("session log was written for a different schema",
			zap.String("log_schema", entry.Schema),
			zap.String("schema", s.PortalID),
		)
	}

	text := packet.Build(s, entry.Answers)
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return err
	}
	if !savePacket {
		return nil
	}
	result, err := newSink().Save(cmd.Context(), s.PortalID, text, entry.Answers)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Saved packet to %s and session log to %s\n", result.PacketPath, result.LogPath)
	return err
}

var errSchemaIssues = errors.New("schema has issues")

func runCheck(cmd *cobra.Command, args []string) error {
	src, err := schemaSource()
	if err != nil {
		return err
	}
	s, err := schema.LoadSchema(cmd.Context(), newLoader(), src)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			for _, issue := range schemaErr.Issues {
				fmt.Fprintln(cmd.OutOrStdout(), issue.String())
			}
			return errSchemaIssues
		}
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d fields ok\n", s.PortalID, len(s.Fields))
	return err
}
