package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jonathan/manuscript-editor/internal/config"
	"github.com/jonathan/manuscript-editor/internal/export"
	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/jonathan/manuscript-editor/internal/observability"
	"github.com/jonathan/manuscript-editor/internal/prompts"
	"github.com/jonathan/manuscript-editor/internal/rendering"
	"github.com/jonathan/manuscript-editor/internal/types"
	"github.com/jonathan/manuscript-editor/internal/wizard"
	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Walk a draft through the five stages in the terminal",
	Long: `Runs the editing flow interactively: submit a draft, pick one of the scored candidate titles,
review the pre-paper and the simulated peer review, and receive the revised manuscript.
Every stage's result is saved to the output directory as it is produced.`,
	RunE: runWizard,
}

var (
	wizardType    string
	wizardDraft   string
	wizardModel   string
	wizardOut     string
	wizardConfig  string
	wizardVerbose bool
	wizardPDF     bool
)

func init() {
	wizardCmd.Flags().StringVarP(&wizardType, "type", "t", "", "Manuscript type: original_article, slr_meta_analysis or case_report")
	wizardCmd.Flags().StringVarP(&wizardDraft, "draft", "d", "", "Path to the draft file (prompted for when omitted)")
	wizardCmd.Flags().StringVarP(&wizardModel, "model", "m", "", "Model selector or name (flash, pro)")
	wizardCmd.Flags().StringVarP(&wizardOut, "out", "o", "", "Output directory for exported files")
	wizardCmd.Flags().StringVarP(&wizardConfig, "config", "c", "", "Path to JSON config file")
	wizardCmd.Flags().BoolVarP(&wizardVerbose, "verbose", "v", false, "Print detailed debug information")
	wizardCmd.Flags().BoolVar(&wizardPDF, "pdf", false, "Also print the final manuscript to PDF (needs Chrome)")
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(wizardConfig)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = wizardModel
	}
	if flags.Changed("out") {
		cfg.OutputDir = wizardOut
	}
	cfg.Verbose = cfg.Verbose || wizardVerbose
	cfg.PDF = cfg.PDF || wizardPDF

	mt, err := types.ParseManuscriptType(wizardType)
	if err != nil {
		return err
	}

	draft := ""
	if wizardDraft != "" {
		content, err := os.ReadFile(wizardDraft)
		if err != nil {
			return fmt.Errorf("failed to read draft file: %w", err)
		}
		draft = string(content)
	}

	gateway := llm.NewGateway(cfg.APIKey, llm.WithVerbose(cfg.Verbose))
	model, err := gateway.Config().ParseModelSelector(cfg.Model)
	if err != nil {
		return err
	}
	policy, err := wizard.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return err
	}

	ctrl := wizard.New(gateway,
		wizard.WithModel(model),
		wizard.WithPolicy(policy),
		wizard.WithVerbose(cfg.Verbose),
	)

	run := newWizardRun(ctrl, cmd.InOrStdin(), cmd.OutOrStdout(), export.NewOSWriter(cfg.OutputDir))
	run.pdf = cfg.PDF
	run.verbose = cfg.Verbose
	return run.run(cmd.Context(), draft, mt)
}

// wizardRun drives one controller from a line-oriented terminal.
type wizardRun struct {
	ctrl    *wizard.Controller
	in      *bufio.Reader
	out     io.Writer
	printer *observability.Printer
	writer  *export.Writer
	pdf     bool
	verbose bool
}

func newWizardRun(ctrl *wizard.Controller, in io.Reader, out io.Writer, writer *export.Writer) *wizardRun {
	return &wizardRun{
		ctrl:    ctrl,
		in:      bufio.NewReader(in),
		out:     out,
		printer: observability.NewPrinter(out),
		writer:  writer,
	}
}

// run loops over projects until the user finishes or quits. The first
// project may use a draft given up front; later ones are always pasted.
func (r *wizardRun) run(ctx context.Context, draft string, mt types.ManuscriptType) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		if err := r.submitDraft(ctx, draft, mt); err != nil {
			return err
		}
		draft = ""

		done, err := r.stages(ctx)
		if err != nil || done {
			return err
		}
	}
}

func (r *wizardRun) submitDraft(ctx context.Context, draft string, mt types.ManuscriptType) error {
	if strings.TrimSpace(draft) == "" {
		var err error
		if draft, err = r.readDraft(); err != nil {
			return err
		}
	}

	r.printf("\nGenerating candidate titles for your %s...\n", mt.Label())
	err := r.ctrl.SubmitDraft(ctx, draft, mt)
	if errors.Is(err, llm.ErrMissingCredential) {
		return fmt.Errorf("%w: set %s or add api_key to the config file", err, config.EnvAPIKey)
	}
	return err
}

// readDraft reads a pasted draft terminated by a line holding a single "." or EOF.
func (r *wizardRun) readDraft() (string, error) {
	r.printf("Paste your rough draft, abstract or data points. End with a line containing only \".\"\n")

	var lines []string
	for {
		line, err := r.in.ReadString('\n')
		if trimmed := strings.TrimRight(line, "\r\n"); trimmed == "." {
			break
		} else if line != "" {
			lines = append(lines, trimmed)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read draft: %w", err)
		}
	}
	return strings.Join(lines, "\n"), nil
}

var stagePrompts = map[types.Stage]string{
	types.StageTitle:     "Paste the title you chose (r = retry, q = quit): ",
	types.StagePrePaper:  "Press Enter to run the peer review (r = retry, q = quit): ",
	types.StageReview:    "Press Enter to write the final manuscript (r = retry, q = quit): ",
	types.StagePostPaper: "Type 'new' to start another project, or press Enter to finish: ",
}

// stages runs the stages after DRAFT. It reports done=true when the user
// finished or quit, and false when they started a new project.
func (r *wizardRun) stages(ctx context.Context) (done bool, err error) {
	for {
		stage := r.ctrl.Stage()
		if stage == types.StageDraft {
			return false, nil
		}

		session := r.ctrl.Session()
		artifact := *session.ArtifactFor(stage)
		r.show(ctx, stage, session, artifact)

		line, eof := r.ask(stagePrompts[stage])
		answer := strings.ToLower(strings.TrimSpace(line))
		if eof && answer == "" {
			return true, nil
		}

		switch {
		case answer == "q" || answer == "quit":
			return true, nil
		case (answer == "r" || answer == "retry") && stage != types.StagePostPaper:
			if err := r.ctrl.Retry(ctx); errors.Is(err, wizard.ErrNothingToRetry) {
				r.printf("Nothing to retry: the %s result is already available.\n", stage)
			}
			continue
		}

		switch stage {
		case types.StageTitle:
			err = r.ctrl.SelectTitle(ctx, line)
		case types.StagePostPaper:
			if answer != "new" {
				r.printer.PrintSession(session)
				return true, nil
			}
			err = r.ctrl.Advance(ctx)
		default:
			err = r.ctrl.Advance(ctx)
		}

		var stageFailed *wizard.StageFailedError
		switch {
		case err == nil:
		case wizard.IsValidation(err), errors.As(err, &stageFailed):
			r.printf("⚠ %v\n", err)
		default:
			return true, err
		}
	}
}

// show prints a stage's artifact and saves its export.
func (r *wizardRun) show(ctx context.Context, stage types.Stage, session *types.Session, artifact types.Artifact) {
	if stage == types.StageTitle {
		r.printer.PrintFull(stage, artifact)
	} else {
		r.printer.PrintArtifact(stage, artifact)
	}
	if artifact.IsPending() {
		return
	}

	exp, err := rendering.ExportFor(stage, session)
	if err != nil {
		r.printf("⚠ export failed: %v\n", err)
		return
	}
	r.save(exp)

	if stage != types.StagePostPaper || !artifact.IsReady() {
		return
	}
	words, werr := rendering.WordCount(string(exp.Body))
	tables, terr := rendering.TableCount(string(exp.Body))
	if werr == nil && terr == nil {
		r.printer.PrintManuscriptStats(words, tables, prompts.MinimumWordTarget)
	}
	if r.pdf {
		pdf, err := rendering.PDFExport(ctx, exp, r.verbose)
		if err != nil {
			r.printf("⚠ PDF export failed: %v\n", err)
			return
		}
		r.save(pdf)
	}
}

func (r *wizardRun) save(exp *rendering.Export) {
	path, err := r.writer.Write(exp)
	if err != nil {
		r.printf("⚠ could not save %s: %v\n", exp.Filename, err)
		return
	}
	if r.verbose {
		log.Printf("[WIZARD] saved %s (%d bytes)", path, len(exp.Body))
	}
	r.printf("Saved %s\n", path)
}

// ask prints prompt and reads one line; eof reports the input is exhausted.
func (r *wizardRun) ask(prompt string) (line string, eof bool) {
	r.printf("%s", prompt)
	line, err := r.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err != nil
}

func (r *wizardRun) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...) //nolint:errcheck
}
