package job

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"checadas.com/ponches/config"
	"checadas.com/ponches/core"
	"checadas.com/ponches/infrastructure/communication"
	"checadas.com/ponches/infrastructure/filesystem"
	"checadas.com/ponches/logging"
	"checadas.com/ponches/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Notifier interface {
	Info(message string) error
	Error(message string) error
}

type Uploader interface {
	WriteFile(ctx context.Context, key string, data []byte, contentType string) error
}

type Deps struct {
	Source filesystem.Source
	// Notifier and Uploader are optional.
	Notifier Notifier
	Uploader Uploader
}

type FileFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Summary struct {
	RunID  string        `json:"runId"`
	Files  []string      `json:"files"`
	Failed []FileFailure `json:"failed,omitempty"`
	Empty  []string      `json:"empty,omitempty"`
	Stats  core.Stats    `json:"stats"`
	Output string        `json:"output,omitempty"`
	NoData bool          `json:"noData"`
}

// Collect reads every file of the source in listing order and builds the
// report rows. A file that cannot be opened or read is logged and left
// out. Listing errors are returned as is; an empty outcome is reported with
// core.ErrNoValidData and a summary flagged NoData.
func Collect(ctx context.Context, cfg config.Config, src filesystem.Source) (Summary, core.Result, error) {
	summary := Summary{RunID: uuid.NewString()}
	l := logging.FromContext(ctx).With(zap.String("run_id", summary.RunID))

	names, err := src.List(ctx)
	if err != nil {
		return summary, core.Result{}, err
	}
	summary.Files = names
	l.Info("files detected", zap.Int("count", len(names)), zap.Strings("files", names))

	files := make([]core.FileResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, core.Result{}, err
		}

		fr := readFile(ctx, src, name)
		switch {
		case fr.Failed():
			l.Warn("could not read file, skipping", zap.String("file", name), zap.Error(fr.Err))
			summary.Failed = append(summary.Failed, FileFailure{Name: name, Error: fr.Err.Error()})
		case fr.Empty():
			l.Info("file had no valid rows", zap.String("file", name), zap.Int("lines", fr.Lines))
			summary.Empty = append(summary.Empty, name)
		default:
			l.Debug("file parsed", zap.String("file", name),
				zap.Int("lines", fr.Lines), zap.Int("valid", len(fr.Events)), zap.Int("skipped", fr.Skipped))
		}
		files = append(files, fr)
	}

	res, err := core.Build(files, cfg.Order())
	summary.Stats = res.Stats
	l.Info("punches consolidated",
		zap.Int("valid_lines", res.Stats.ValidLines),
		zap.Int("skipped_lines", res.Stats.SkippedLines),
		zap.Int("after_dedupe", res.Stats.Unique),
		zap.Int("rows", res.Stats.Rows))
	if errors.Is(err, core.ErrNoValidData) {
		summary.NoData = true
		l.Warn("no valid data found", zap.Int("files", len(names)))
	}
	return summary, res, err
}

func readFile(ctx context.Context, src filesystem.Source, name string) core.FileResult {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return core.FailedFile(name, err)
	}
	defer rc.Close()
	return core.ParseFile(name, rc)
}

// Run collects the punches, writes the report to the configured path, or to
// S3 when an output key is set, and notifies the outcome. An empty outcome
// returns core.ErrNoValidData without writing anything.
func Run(ctx context.Context, cfg config.Config, deps Deps) (Summary, error) {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = communication.Discard{}
	}

	summary, res, err := Collect(ctx, cfg, deps.Source)
	if err != nil {
		if summary.NoData {
			notify(ctx, notifier.Info, FormatSummary(summary))
		} else {
			notify(ctx, notifier.Error, fmt.Sprintf("ponches run %s failed: %v", summary.RunID, err))
		}
		return summary, err
	}

	opts := cfg.ReportOptions()
	opts.RunID = summary.RunID

	output, err := write(ctx, cfg, deps, res, opts)
	if err != nil {
		notify(ctx, notifier.Error, fmt.Sprintf("ponches run %s failed: %v", summary.RunID, err))
		return summary, err
	}
	summary.Output = output

	logging.FromContext(ctx).Info("report written",
		zap.String("run_id", summary.RunID),
		zap.String("output", output),
		zap.String("format", string(opts.Format)),
		zap.String("mode", string(opts.Mode)))
	notify(ctx, notifier.Info, FormatSummary(summary))
	return summary, nil
}

func write(ctx context.Context, cfg config.Config, deps Deps, res core.Result, opts report.Options) (string, error) {
	if key := cfg.Output.S3Key; key != "" {
		if deps.Uploader == nil {
			return "", fmt.Errorf("no uploader for s3 key %s", key)
		}
		data, err := report.Bytes(res.Rows, opts)
		if err != nil {
			return "", err
		}
		if err := deps.Uploader.WriteFile(ctx, key, data, opts.Format.ContentType()); err != nil {
			return "", err
		}
		return fmt.Sprintf("s3://%s/%s", cfg.Input.S3.Bucket, key), nil
	}

	path := cfg.OutputPath()
	if err := report.WriteFile(path, res.Rows, opts); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

func notify(ctx context.Context, send func(string) error, message string) {
	if err := send(message); err != nil {
		logging.FromContext(ctx).Warn("notification failed", zap.Error(err))
	}
}

// FormatSummary renders the run outcome as a short plain text message.
func FormatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", s.RunID)
	fmt.Fprintf(&b, "Files detected: %d\n", len(s.Files))
	for _, f := range s.Failed {
		fmt.Fprintf(&b, "  could not read %s: %s\n", f.Name, f.Error)
	}
	for _, name := range s.Empty {
		fmt.Fprintf(&b, "  %s had no valid rows\n", name)
	}
	if s.NoData {
		b.WriteString("No valid data found, no report written.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Valid lines: %d\n", s.Stats.ValidLines)
	fmt.Fprintf(&b, "After removing exact duplicates: %d\n", s.Stats.Unique)
	fmt.Fprintf(&b, "Final rows (first and last punch per employee/day): %d\n", s.Stats.Rows)
	if s.Output != "" {
		fmt.Fprintf(&b, "Report: %s\n", s.Output)
	}
	return b.String()
}

// NewDeps wires the input source, uploader and notifier described by cfg.
// An S3 bucket wins over explicit files, which win over directory discovery.
func NewDeps(ctx context.Context, cfg config.Config) (Deps, error) {
	var deps Deps
	switch {
	case cfg.Input.S3.Bucket != "":
		bucket, err := filesystem.ConnectBucket(ctx, cfg.Input.S3.Bucket, cfg.Input.S3.Prefix, cfg.Input.Extensions)
		if err != nil {
			return deps, err
		}
		deps.Source = bucket
		deps.Uploader = bucket
	case len(cfg.Input.Files) > 0:
		deps.Source = filesystem.Files(cfg.Input.Files)
	default:
		deps.Source = filesystem.Dir{Path: cfg.Input.Dir, Extensions: cfg.Input.Extensions}
	}

	if cfg.Slack.Token != "" {
		deps.Notifier = communication.NewSlack(cfg.Slack.Token, communication.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannelID,
			ErrorChannelID: cfg.Slack.ErrorChannelID,
		})
	}
	return deps, nil
}
