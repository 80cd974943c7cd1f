package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"postgen/internal/generator"
	"postgen/internal/post"
	"postgen/internal/share"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

const (
	actionCopy    = "copy"
	actionShare   = "share"
	actionAnother = "another"
	actionQuit    = "quit"
)

// keyRequest запоминает, что генератор попросил ключ. Форму ввода нельзя
// показать под спиннером, поэтому compose открывает её после него.
type keyRequest struct {
	asked atomic.Bool
}

func (k *keyRequest) RequestCredential(ctx context.Context) {
	k.asked.Store(true)
}

type composeForm struct {
	prompt string
	topic  string
	tone   string
	length string
}

func newComposeForm() *composeForm {
	return &composeForm{
		tone:   string(post.DefaultTone),
		length: string(post.DefaultLength),
	}
}

func (f *composeForm) request() (post.GenerationRequest, error) {
	return post.NewRequest(f.prompt, f.topic, f.tone, f.length)
}

func (f *composeForm) run() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What do you want to post about?").
				Placeholder("e.g. Lessons from shipping our first AI feature").
				Value(&f.prompt).
				Validate(func(s string) error {
					_, err := post.NewRequest(s, "", "", "")
					return err
				}),
			huh.NewInput().
				Title("Topic (optional)").
				Value(&f.topic),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tone").
				Options(toneOptions()...).
				Value(&f.tone),
			huh.NewSelect[string]().
				Title("Length").
				Options(lengthOptions()...).
				Value(&f.length),
		),
	).Run()
}

func toneOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(post.Tones))
	for _, t := range post.Tones {
		opts = append(opts, huh.NewOption(t.Label(), string(t)))
	}
	return opts
}

func lengthOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(post.Lengths))
	for _, l := range post.Lengths {
		opts = append(opts, huh.NewOption(l.Label(), string(l)))
	}
	return opts
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compose",
		Short: "Compose a post interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, root)
			if err != nil {
				return err
			}
			keys := &keyRequest{}
			gen, err := rt.newGenerator(keys)
			if err != nil {
				return err
			}

			err = runCompose(cmd.Context(), cmd.OutOrStdout(), rt, gen, keys)
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		},
	}
}

func runCompose(ctx context.Context, out io.Writer, rt *runtime, gen *generator.Generator, keys *keyRequest) error {
	form := newComposeForm()
	for {
		if err := form.run(); err != nil {
			return err
		}
		req, err := form.request()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}

		display, err := generateWithSpinner(ctx, gen, req)
		if errors.Is(err, generator.ErrMissingCredential) && keys.asked.Swap(false) {
			fmt.Fprintln(out, dimStyle.Render("An API key is required to generate posts."))
			value, askErr := askForKey()
			if askErr != nil {
				return askErr
			}
			if saveErr := rt.creds.Save(value); saveErr != nil {
				return saveErr
			}
			display, err = generateWithSpinner(ctx, gen, req)
		}
		if err != nil {
			// Пользователь видит только общий текст; причина уже в логе.
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		fmt.Fprintln(out, titleStyle.Render("Your post"))
		fmt.Fprintln(out, postBoxStyle.Render(display.Text))
		if display.UsedFallback {
			fmt.Fprintln(out, dimStyle.Render("generated via fallback transport"))
		}

		again, err := afterGeneration(out, display)
		if err != nil || !again {
			return err
		}
	}
}

// afterGeneration предлагает действия над готовым постом. true означает новый пост.
func afterGeneration(out io.Writer, display post.DisplayPost) (bool, error) {
	for {
		var action string
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What next?").
				Options(
					huh.NewOption("Copy to clipboard", actionCopy),
					huh.NewOption("Show LinkedIn share link", actionShare),
					huh.NewOption("Write another post", actionAnother),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&action),
		)).Run()
		if err != nil {
			return false, err
		}

		switch action {
		case actionCopy:
			if err := clipboard.WriteAll(display.Text); err != nil {
				fmt.Fprintln(out, errorStyle.Render("copy failed: "+err.Error()))
				continue
			}
			fmt.Fprintln(out, okStyle.Render("Copied to clipboard."))
		case actionShare:
			fmt.Fprintln(out, share.LinkedInURL(display.Text))
		case actionAnother:
			return true, nil
		default:
			return false, nil
		}
	}
}

func generateWithSpinner(ctx context.Context, gen *generator.Generator, req post.GenerationRequest) (post.DisplayPost, error) {
	var (
		display post.DisplayPost
		genErr  error
	)
	err := spinner.New().
		Title("Generating...").
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			display, genErr = gen.Generate(ctx, req)
			return nil
		}).
		Run()
	if err != nil {
		gen.Abandon()
		return post.DisplayPost{}, err
	}
	return display, genErr
}
