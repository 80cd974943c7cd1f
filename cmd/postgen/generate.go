package main

import (
	"errors"
	"fmt"
	"strings"

	"postgen/internal/generator"
	"postgen/internal/post"
	"postgen/internal/share"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var errNoKey = errors.New(`no API key configured: run "postgen key set" or set TOGETHER_API_KEY`)

type generateOptions struct {
	prompt string
	topic  string
	tone   string
	length string
	copy   bool
	share  bool
}

// request собирает запрос из флагов; позиционные аргументы считаются текстом идеи.
func (o generateOptions) request(args []string) (post.GenerationRequest, error) {
	text := o.prompt
	if text == "" {
		text = strings.Join(args, " ")
	}
	return post.NewRequest(text, o.topic, o.tone, o.length)
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [idea...]",
		Short: "Generate one post without interactive prompts",
		Long: `Generates a single post and prints it to stdout.

Examples:
  postgen generate "AI in hiring"
  postgen generate --prompt "Remote work" --tone casual --length short
  postgen generate --topic leadership --copy "Lessons from my first year as a manager"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args)
			if err != nil {
				return err
			}

			rt, err := loadRuntime(cmd, root)
			if err != nil {
				return err
			}
			gen, err := rt.newGenerator(nil)
			if err != nil {
				return err
			}

			display, err := gen.Generate(cmd.Context(), req)
			switch {
			case errors.Is(err, generator.ErrMissingCredential):
				return errNoKey
			case err != nil:
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.Text)
			if opts.share {
				fmt.Fprintln(out)
				fmt.Fprintln(out, share.LinkedInURL(display.Text))
			}
			if opts.copy {
				if err := clipboard.WriteAll(display.Text); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "copy to clipboard failed: %v\n", err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "idea for the post")
	flags.StringVar(&opts.topic, "topic", "", "optional topic")
	flags.StringVarP(&opts.tone, "tone", "t", string(post.DefaultTone), "tone: "+joinTones())
	flags.StringVarP(&opts.length, "length", "l", string(post.DefaultLength), "length: "+joinLengths())
	flags.BoolVar(&opts.copy, "copy", false, "copy the post to the clipboard")
	flags.BoolVar(&opts.share, "share", false, "print a LinkedIn share link after the post")

	return cmd
}

func joinTones() string {
	names := make([]string, 0, len(post.Tones))
	for _, t := range post.Tones {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func joinLengths() string {
	names := make([]string, 0, len(post.Lengths))
	for _, l := range post.Lengths {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
