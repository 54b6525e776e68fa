package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/pkg/logger"
	"docpanel-be/internal/preview"
	"docpanel-be/pkg/docservice"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var flags struct {
	serviceURL   string
	timeout      time.Duration
	mode         string
	body         string
	bodyFile     string
	header       string
	footer       string
	documentType string
	subjectID    int64
	subjectName  string
	collaborator string
	title        string
	date         string
	out          string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Request a preview and write it to --out",
	RunE:  runPreview,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the final document (download or persist, by mode)",
	RunE:  runGenerate,
}

// dirSaver writes downloads into dir, creating it when missing.
func dirSaver(dir string) docgen.Saver {
	return docgen.SaverFunc(func(_ context.Context, filename string, content []byte) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return os.WriteFile(filepath.Join(dir, filename), content, 0o644)
	})
}

func consoleReporter() docgen.Reporter {
	return docgen.ReporterFunc(func(r docgen.Report) {
		switch r.Kind {
		case docgen.ReportSuccess:
			color.Green("✓ %s", r.Message)
		case docgen.ReportRejected:
			color.Yellow("! %s", r.Message)
		case docgen.ReportFailure:
			color.Red("✗ %s", r.Message)
			if cause := errors.Unwrap(r.Err); cause != nil {
				printField("detail", cause)
			}
		}
	})
}

// reportedError marks an error the console reporter has already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// reported wraps an error returned by OpenPreview or Commit. Discarded results
// of a closed session are never reported, so they stay unwrapped.
func reported(err error) error {
	if err == nil || errors.Is(err, docgen.ErrSessionClosed) || errors.Is(err, docgen.ErrPreviewClosed) {
		return err
	}
	return &reportedError{err: err}
}

// failureMessage returns the text main still has to print for err.
func failureMessage(err error) (string, bool) {
	var rep *reportedError
	if errors.As(err, &rep) {
		return "", false
	}
	return err.Error(), true
}

func openSession(ctx context.Context) (*docgen.Orchestrator, *preview.Store, error) {
	mode, err := docgen.ParseMode(flags.mode)
	if err != nil {
		return nil, nil, err
	}
	initial, err := initialPatch()
	if err != nil {
		return nil, nil, err
	}

	timeout := flags.timeout
	if timeout == 0 {
		timeout = 60 * time.Second
		if d, err := time.ParseDuration(os.Getenv("DOC_SERVICE_TIMEOUT")); err == nil {
			timeout = d
		}
	}
	client := docservice.NewClient(flags.serviceURL, timeout)

	if mode == docgen.ModeStudent && initial.SubjectID != nil && initial.SubjectName == nil {
		if subject, err := client.GetSubject(ctx, *initial.SubjectID); err == nil {
			initial.SubjectName = &subject.Name
		} else {
			color.Yellow("! subject lookup failed: %v", err)
		}
	}

	store := preview.NewStore()
	o, err := docgen.New(uuid.New(), mode, initial, docgen.Options{
		Client:   client,
		Previews: store,
		Reporter: consoleReporter(),
		Saver:    dirSaver(flags.out),
		Logger:   logger.NewNopLogger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return o, store, nil
}

func initialPatch() (docgen.FormPatch, error) {
	var p docgen.FormPatch
	body := flags.body
	if flags.bodyFile != "" {
		raw, err := os.ReadFile(flags.bodyFile)
		if err != nil {
			return p, fmt.Errorf("read body file: %w", err)
		}
		body = string(raw)
	}

	p.Body = &body
	p.Header = &flags.header
	p.Footer = &flags.footer
	p.Title = &flags.title
	if flags.documentType != "" {
		p.DocumentType = &flags.documentType
	}
	if flags.subjectID > 0 {
		p.SubjectID = &flags.subjectID
	}
	if flags.subjectName != "" {
		p.SubjectName = &flags.subjectName
	}
	if flags.collaborator != "" {
		p.CollaboratorName = &flags.collaborator
	}
	if flags.date != "" {
		d, err := time.Parse(docgen.DateLayout, flags.date)
		if err != nil {
			return p, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", flags.date)
		}
		p.DocumentDate = &d
	}
	return p, nil
}

func runPreview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	o, store, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer o.Reset()

	res, err := o.OpenPreview(ctx)
	if err != nil {
		return reported(err)
	}
	artifact, err := store.Open(res.Handle)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flags.out, 0o755); err != nil {
		return err
	}
	path := filepath.Join(flags.out, fmt.Sprintf("preview_%s.pdf", o.ID().String()[:8]))
	if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
		return err
	}
	printField("file", path)
	printField("content type", res.ContentType)
	if res.Pages > 0 {
		printField("pages", res.Pages)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	o, _, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer o.Reset()

	res, err := o.Commit(ctx)
	if err != nil {
		return reported(err)
	}
	if res.Download != nil {
		printField("file", filepath.Join(flags.out, res.Download.Filename))
	}
	if res.Record != nil {
		printField("record", res.Record.ID)
		printField("title", res.Record.Title)
	}
	return nil
}
