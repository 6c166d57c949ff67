package commands

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/config"
	"github.com/foodverse/foodverse/internal/printer"
	"github.com/foodverse/foodverse/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "foodverse config validate [options]",
				Description: "Checks value ranges, the API URL, the theme name and that the data directory is usable.",
				Flags: []cli.Flag{
					formatFlag(&cmd.format),
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateOutput struct {
	Valid      bool         `json:"valid"`
	ConfigPath string       `json:"config_path"`
	DataDir    string       `json:"data_dir"`
	Errors     []fieldIssue `json:"errors,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	out := validateOutput{
		Valid:      true,
		ConfigPath: cmd.flags.ConfigPath,
	}

	cfg := cmd.flags.Config
	if cfg == nil {
		loaded, err := config.Load(cmd.flags.ConfigPath, cmd.flags.DataDir)
		if err != nil {
			out.Valid = false
			out.Errors = issues(err)
		}
		cfg = loaded
	}

	if cfg != nil {
		out.DataDir = cfg.DataDir
		if err := cfg.ValidateDeep(cmd.flags.ConfigPath); err != nil {
			out.Valid = false
			out.Errors = append(out.Errors, issues(err)...)
		}
	}

	if cmd.format == formatJSON {
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
			return err
		}
		if !out.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	p.Section("Config")
	p.KeyValue("file", out.ConfigPath)
	p.KeyValue("data dir", out.DataDir)
	p.Printf("")

	if out.Valid {
		p.Successf("Configuration is valid")
		return nil
	}

	for _, issue := range out.Errors {
		p.Errorf("%s: %s", issue.Field, issue.Message)
	}
	p.Printf("")
	p.Errorf("%d error(s) found", len(out.Errors))
	return cli.Exit("", 1)
}

// issues flattens criterio field errors; anything else becomes one entry.
func issues(err error) []fieldIssue {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []fieldIssue{{Field: "config", Message: err.Error()}}
	}

	out := make([]fieldIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
