package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/beankit/bootstrap"
	"github.com/kbukum/beankit/config"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/version"
)

const serviceName = "beankit-demo"

const (
	configFlag  = "config"
	envFileFlag = "env-file"
	inspectFlag = "inspect-addr"
)

// OrdersConfig feeds literal values into the root descriptors.
type OrdersConfig struct {
	DSN      string            `yaml:"dsn" mapstructure:"dsn"`
	Zone     string            `yaml:"zone" mapstructure:"zone"`
	Channels map[string]string `yaml:"channels" mapstructure:"channels"`
}

type demoConfig struct {
	bootstrap.AppConfig `yaml:",inline" mapstructure:",squash"`
	Orders              OrdersConfig `yaml:"orders" mapstructure:"orders"`
}

func (c *demoConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.AppConfig.ApplyDefaults()
	if c.Orders.DSN == "" {
		c.Orders.DSN = "memory://orders"
	}
	if c.Orders.Zone == "" {
		c.Orders.Zone = "UTC"
	}
	if len(c.Orders.Channels) == 0 {
		c.Orders.Channels = map[string]string{"email": "ops@example.com"}
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   serviceName + " [sub-command]",
		Short: "Wire a small order service with the beankit container",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String(configFlag, "", "path to a YAML config file")
	cmd.PersistentFlags().String(envFileFlag, "", "path to a .env file")

	cmd.AddCommand(newRunCommand(), newGraphCommand(), newVersionCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the containers and serve the inspect endpoint until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString(inspectFlag); addr != "" {
				cfg.Container.Inspect.Enabled = true
				cfg.Container.Inspect.Addr = addr
			}
			app, _, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().String(inspectFlag, "", "enable the inspect endpoint on this address")
	return cmd
}

func newGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Resolve the object graph once, print how it is wired, and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, web, err := newApp(cfg, io.Discard)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return app.RunTask(cmd.Context(), func(context.Context) error {
				lines, err := describeGraph(app.Container, web)
				if err != nil {
					return err
				}
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

func loadConfig(cmd *cobra.Command) (*demoConfig, error) {
	var opts []config.LoaderOption
	if path, _ := cmd.Flags().GetString(configFlag); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := cmd.Flags().GetString(envFileFlag); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	cfg := &demoConfig{}
	if err := bootstrap.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp registers the root graph and creates the "web" child container.
func newApp(cfg *demoConfig, summary io.Writer) (*bootstrap.App[*demoConfig], *di.Container, error) {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(summary))
	if err != nil {
		return nil, nil, err
	}
	if err := app.Binders.Register(binders()...); err != nil {
		return nil, nil, err
	}
	if err := app.Descriptors.RegisterAll(rootDescriptors(cfg.Orders)...); err != nil {
		return nil, nil, err
	}
	if err := app.Descriptors.RegisterAlias("order-service", "orders"); err != nil {
		return nil, nil, err
	}

	web := descriptor.NewRegistry()
	if err := web.RegisterAll(webDescriptors()...); err != nil {
		return nil, nil, err
	}
	child, err := app.NewChild("web", web, di.WithPreInstantiate(true))
	if err != nil {
		return nil, nil, err
	}
	return app, child, nil
}
