package main

import (
	"fmt"
	"log/slog"

	"postgen/internal/config"
	"postgen/internal/credential"
	"postgen/internal/generator"
	"postgen/internal/llm"
	"postgen/internal/logging"
	"postgen/internal/prompt"
	"postgen/internal/transport"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "postgen",
		Short: "Generate LinkedIn posts with Together AI models",
		Long: `postgen turns a short idea into a ready-to-share LinkedIn post.

Configuration is read from the environment and an optional .env file.
The API key is stored under the name "togetherApiKey" and can be managed
with "postgen key".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newComposeCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newKeyCmd(opts))
	return cmd
}

// runtime: конфиг, логгер и ключ, общие для всех команд.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	creds  *credential.Service
}

func loadRuntime(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(opts.logLevel, cmd.ErrOrStderr())

	store, err := credential.OpenStore(cfg.Credential, logger)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		creds:  credential.NewService(cfg.Credential.Name, store, cfg.Credential.APIKey),
	}, nil
}

func (r *runtime) newGenerator(prompter generator.CredentialPrompter) (*generator.Generator, error) {
	builder, err := prompt.New(r.cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("init prompt builder: %w", err)
	}

	if !llm.IsKnownModel(r.cfg.Generation.ModelID) {
		r.logger.Warn("model is not in the catalog", slog.String("model", r.cfg.Generation.ModelID))
	}

	httpClient := transport.NewHTTPClient(r.cfg.RequestTimeout)
	client := llm.NewClient(llm.ClientConfig{
		Primary:  llm.NewSDKTransport(r.cfg.Together, httpClient),
		Fallback: llm.NewHTTPTransport(r.cfg.Together, httpClient),
		Logger:   r.logger,
	})

	return generator.New(generator.Deps{
		Prompts:     builder,
		Completer:   client,
		Credentials: r.creds,
		Prompter:    prompter,
		Logger:      r.logger,
	}), nil
}
