package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	gdtypes "github.com/elamaunt/gdshrapt-go"
	"github.com/elamaunt/gdshrapt-go/internal/autoload"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
)

// useColor gates colored output on a real terminal.
func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func openSession(cmd *cobra.Command) (*gdtypes.Session, *autoload.ProjectConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := autoload.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	session, err := gdtypes.NewSession(gdtypes.Options{
		HostDescriptorPath: cfg.HostDescriptor,
		Autoloads:          cfg.Autoload,
		Logger:             logging.NewStdLogger(debug),
	})
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

func newTypesCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List every type the provider federation knows",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd)
			if err != nil {
				return err
			}
			heading := color.New(color.FgCyan, color.Bold)
			if !useColor() {
				color.NoColor = true
			}
			for _, name := range session.Composite.GetAllTypes() {
				if filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
					continue
				}
				base := session.Composite.GetBaseType(name)
				if base != "" {
					fmt.Printf("%s < %s\n", heading.Sprint(name), base)
				} else {
					fmt.Println(heading.Sprint(name))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "substring filter on type names")
	return cmd
}

func newSceneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scene <path.tscn>",
		Short: "Dump the parsed node tree of a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := scene.ParseFile(args[0])
			if err != nil {
				return err
			}
			if !useColor() {
				color.NoColor = true
			}
			nodeColor := color.New(color.FgGreen)
			markColor := color.New(color.FgYellow)
			for _, node := range info.Nodes {
				line := fmt.Sprintf("%-40s %s", node.Path, nodeColor.Sprint(node.NodeType))
				if node.ScriptPath != "" {
					line += "  script=" + node.ScriptPath
				}
				if node.IsUnique {
					line += "  " + markColor.Sprint("%unique")
				}
				fmt.Println(line)
			}
			for _, conn := range info.Connections {
				fmt.Printf("connection %s: %s -> %s.%s\n", conn.Signal, conn.From, conn.To, conn.Method)
			}
			return nil
		},
	}
}

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Dump the project inference report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd)
			if err != nil {
				return err
			}
			return session.NewReportBuilder().BuildProject().Export(os.Stdout)
		},
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the project configuration and host descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := openSession(cmd)
			if err != nil {
				return err
			}
			if !useColor() {
				color.NoColor = true
			}
			ok := color.New(color.FgGreen).Sprint("ok")
			fmt.Printf("host descriptor: %s (%d types, version %q)\n",
				ok, len(session.Host.GetAllTypes()), session.Host.Version())
			fmt.Printf("autoloads: %d configured\n", len(cfg.Autoload))
			for _, e := range cfg.Autoload {
				state := "disabled"
				if e.Enabled {
					state = string(e.Kind)
				}
				fmt.Printf("  %-20s %-8s %s\n", e.Name, state, e.Path)
			}
			return nil
		},
	}
}
