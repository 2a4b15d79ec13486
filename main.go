package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	chatx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/chat"
	llmx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/llm"
	"github.com/tanpawarit/Northwind-Tool-Assistant/agent/northwind"
	plannerx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/planner"
	promptx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/prompt"
	summarizerx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/summarizer"
	toolx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/tool"
	"github.com/tanpawarit/Northwind-Tool-Assistant/api"
	"github.com/tanpawarit/Northwind-Tool-Assistant/mcpserver"
	configx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/config"
	dbx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/database"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
	_ "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger/autoload"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "northwind-assistant",
	Short:         "Answer questions about the Northwind database with LLM-selected tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(os.Stdout)
	},
}

func initLogging(out io.Writer) error {
	configx.SetEnvFile(envFile)
	logCfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		return err
	}
	logCfg.Output = out
	logx.Init(*logCfg)
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /chat and GET /tools over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpCfg, err := configx.New[api.Config]("HTTP")
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		server, err := api.NewServer(*httpCfg, a.chat, a.registry)
		if err != nil {
			return err
		}
		return server.Run(ctx)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer a single query and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		reply, err := a.chat.HandleQuery(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog the planner sees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Catalog only: no tool is invoked, so the store needs no connection.
		registry, err := toolx.NewRegistry(northwind.NewStore(nil))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(registry.DescribeWithSchema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-params]",
	Short: "Invoke one tool directly and print its summarized result",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 2 {
			raw = args[1]
		}
		params, err := toolx.ParseArgs([]byte(raw))
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), a.caller.Call(cmd.Context(), args[0], params))
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tools to MCP clients over stdio",
	Args:  cobra.NoArgs,
	// stdout carries the protocol.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(os.Stderr)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newToolApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		server, err := mcpserver.New(a.registry, a.dispatcher)
		if err != nil {
			return err
		}
		return mcpserver.Serve(ctx, server)
	},
}

type app struct {
	db         *bun.DB
	registry   *toolx.Registry
	dispatcher *toolx.Dispatcher
	chat       *chatx.Service
	caller     *chatx.ToolCaller
}

// newToolApp connects the database and builds the tool layer only.
func newToolApp(ctx context.Context) (*app, error) {
	dbCfg, err := configx.New[dbx.Config]("DATABASE")
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, *dbCfg)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}

	a.registry, err = toolx.NewRegistry(northwind.NewStore(db))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.dispatcher, err = toolx.NewDispatcher(a.registry)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context) (*app, error) {
	llmCfg, err := configx.New[llmx.Config]("OPENROUTER")
	if err != nil {
		return nil, err
	}

	a, err := newToolApp(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.wire(ctx, *llmCfg); err != nil {
		a.Close()
		return nil, err
	}
	log.Info().
		Str("backend", string(llmCfg.Backend)).
		Strs("tools", a.registry.Names()).
		Msg("northwind assistant ready")
	return a, nil
}

func (a *app) wire(ctx context.Context, llmCfg llmx.Config) error {
	executor, err := chatx.NewExecutor(a.dispatcher)
	if err != nil {
		return err
	}

	plannerGen, err := llmx.NewGenerator(ctx, llmCfg, llmx.RolePlanner)
	if err != nil {
		return err
	}
	summarizerGen, err := llmx.NewGenerator(ctx, llmCfg, llmx.RoleSummarizer)
	if err != nil {
		return err
	}

	prompts := promptx.LoadPromptSet()
	planner, err := plannerx.New(plannerGen, a.registry, prompts)
	if err != nil {
		return err
	}
	summarizer, err := summarizerx.New(summarizerGen, prompts)
	if err != nil {
		return err
	}

	service, err := chatx.NewService(planner, executor, summarizer)
	if err != nil {
		return err
	}
	caller, err := chatx.NewToolCaller(a.dispatcher, summarizer)
	if err != nil {
		return err
	}

	a.chat = service
	a.caller = caller
	return nil
}

func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to an env file (defaults to ./.env when present)")
	rootCmd.AddCommand(serveCmd, askCmd, callCmd, toolsCmd, mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("northwind-assistant failed")
		os.Exit(1)
	}
}
