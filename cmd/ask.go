package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/chaterr"
	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/core"
	"github.com/Rorical/FolioChat/internal/format"
	"github.com/Rorical/FolioChat/internal/models"
	"github.com/Rorical/FolioChat/internal/transport"
)

const (
	outputText = "text"
	outputHTML = "html"
	outputRaw  = "raw"
)

var (
	askOutput   string
	askNoTyping bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch askOutput {
		case outputText, outputHTML, outputRaw:
		default:
			return fmt.Errorf("unknown output %q (want text, html or raw)", askOutput)
		}

		tr, err := transport.NewFromConfig(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create transport: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		question := strings.Join(args, " ")
		return runAsk(ctx, cfg, tr, question, askOutput, !askNoTyping, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	},
}

func init() {
	askCmd.Flags().StringVarP(&askOutput, "output", "o", outputText, "output format: text, html or raw")
	askCmd.Flags().BoolVar(&askNoTyping, "no-typing", false, "print the reply at once")
}

// runAsk submits one question through the chat pipeline. The typing
// animation only applies to text output, where frames are streamed as-is.
func runAsk(ctx context.Context, base *config.Config, tr core.Transport, question, output string, typing bool, out, errOut io.Writer, logger *zap.Logger) error {
	c := *base
	c.TypingIndicator = c.TypingIndicator && typing && output == outputText

	renderer := &askRenderer{out: out, errOut: errOut, stream: c.TypingIndicator}
	pipeline := core.NewPipeline(&c, core.NewTranscript(), tr, renderer, logger)

	if err := pipeline.Submit(ctx, question); err != nil {
		if chaterr.KindOf(err) != chaterr.KindValidation {
			fmt.Fprintln(errOut, renderer.last.Text)
		}
		return err
	}

	if renderer.streamed > 0 {
		fmt.Fprintln(out)
		// An interrupt stops the animation early; the output is truncated
		return ctx.Err()
	}

	switch output {
	case outputHTML:
		fmt.Fprintln(out, format.MessageHTML(renderer.last))
	case outputRaw:
		fmt.Fprintln(out, renderer.last.Text)
	default:
		fmt.Fprintln(out, format.Terminal(renderer.last.Text))
	}
	return nil
}

// askRenderer keeps the latest message and streams typing frames.
type askRenderer struct {
	out      io.Writer
	errOut   io.Writer
	stream   bool
	streamed int
	last     models.Message
}

func (r *askRenderer) Render(messages []models.Message) {
	if len(messages) == 0 {
		return
	}
	r.last = messages[len(messages)-1]
	if !r.stream || !r.last.Typing {
		return
	}
	runes := []rune(r.last.Text)
	if len(runes) > r.streamed {
		fmt.Fprint(r.out, format.Escape(string(runes[r.streamed:])))
		r.streamed = len(runes)
	}
}

func (r *askRenderer) Notify(notice string) {
	fmt.Fprintln(r.errOut, notice)
}

func (r *askRenderer) SetInputEnabled(bool) {}
