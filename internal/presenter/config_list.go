package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/Cyclone1070/precious/internal/config"
)

// ListFormat selects the output of "config list".
type ListFormat string

const (
	ListTable ListFormat = "table"
	ListYAML  ListFormat = "yaml"
)

// CommandInfo is one row of "config list".
type CommandInfo struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Runs string `yaml:"runs"`
}

type configListing struct {
	Config   string        `yaml:"config"`
	Commands []CommandInfo `yaml:"commands"`
}

// ListCommands returns the commands of cfg in declaration order.
func ListCommands(cfg *config.Config) []CommandInfo {
	infos := make([]CommandInfo, 0, len(cfg.Commands))
	for _, cc := range cfg.Commands {
		infos = append(infos, CommandInfo{
			Name: cc.Name,
			Type: cc.TypeName(),
			Runs: strings.Join(cc.Params.Cmd, " "),
		})
	}
	return infos
}

// PrintConfig writes the commands defined in cfg.
func PrintConfig(w io.Writer, cfg *config.Config, format ListFormat, ascii bool) error {
	infos := ListCommands(cfg)

	switch format {
	case ListYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(configListing{Config: cfg.Path, Commands: infos}); err != nil {
			return fmt.Errorf("failed to encode config listing: %w", err)
		}
		return enc.Close()
	case ListTable, "":
		border := lipgloss.NormalBorder()
		if ascii {
			border = lipgloss.ASCIIBorder()
		}
		t := table.New().Border(border).Headers("Name", "Type", "Runs")
		for _, info := range infos {
			t.Row(info.Name, info.Type, info.Runs)
		}
		_, err := fmt.Fprintf(w, "Found config file at: %s\n\n%s\n", cfg.Path, t.Render())
		return err
	default:
		return fmt.Errorf("unknown list format %q, expected table or yaml", format)
	}
}
