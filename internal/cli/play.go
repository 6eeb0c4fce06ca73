package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/analyze"
	"github.com/matzehuels/watertower/pkg/generate"
	"github.com/matzehuels/watertower/pkg/pipeline"
	"github.com/matzehuels/watertower/pkg/render/sink"
	"github.com/matzehuels/watertower/pkg/skyline"
)

// Play view styles
var (
	playHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	playErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var source sourceFlags

	cmd := &cobra.Command{
		Use:   "play [heights...]",
		Short: "Explore skylines interactively",
		Long: `Play shows the flooded skyline in the terminal.

Keys:
  r        draw a new random skyline
  d        restore the default configuration
  q        quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(withLogger(cmd.Context(), c.Logger), args, source)
		},
	}
	source.register(cmd)
	return cmd
}

func (c *CLI) runPlay(ctx context.Context, args []string, source sourceFlags) error {
	cfg, err := source.loadConfig()
	if err != nil {
		return err
	}
	opts, err := source.options(cfg, args)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	h, err := opts.Heightmap()
	if err != nil {
		return err
	}
	rng, err := generate.NewSource(cfg.Seed, cfg.Width, cfg.MaxHeight)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, source.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Log lines would tear the alternate screen apart.
	quiet := *runner
	quiet.Logger = nil
	opts.Logger = nil

	m := newPlayModel(ctx, &quiet, rng, opts, h)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// playModel - Interactive skyline view
// =============================================================================

// playModel is the bubbletea model behind the play command.
type playModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	rng    *generate.Source
	opts   pipeline.Options

	heightmap *skyline.Heightmap
	result    analyze.Result
	cached    bool
	draws     int
	err       error
}

func newPlayModel(ctx context.Context, runner *pipeline.Runner, rng *generate.Source, opts pipeline.Options, h *skyline.Heightmap) playModel {
	m := playModel{ctx: ctx, runner: runner, rng: rng, opts: opts}
	return m.load(h)
}

// load analyzes h and makes it the current skyline.
func (m playModel) load(h *skyline.Heightmap) playModel {
	res, hit, err := m.runner.AnalyzeWithCacheInfo(m.ctx, h, m.opts)
	if err != nil {
		m.err = err
		return m
	}
	m.heightmap, m.result, m.cached, m.err = h, res, hit, nil
	return m
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.draws++
			return m.load(m.rng.Next()), nil
		case "d":
			h, err := generate.Preset(generate.PresetDefault, m.opts.MaxHeight)
			if err != nil {
				m.err = err
				return m, nil
			}
			return m.load(h), nil
		}
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watertower"))
	b.WriteString("\n\n")

	if m.heightmap != nil {
		b.WriteString("Your configuration is: " + StyleValue.Render(m.heightmap.String()))
		b.WriteString("\n\n")
		b.Write(sink.RenderText(m.result, sink.WithColor(), sink.WithAxis()))
		b.WriteString("\n")
		b.WriteString("Calculated volume is " + StyleNumber.Render(fmt.Sprint(m.result.Volume)))
		b.WriteString("\n")

		status := fmt.Sprintf("%d basins · draw %d", len(m.result.Basins), m.draws)
		if m.cached {
			status += " · " + iconCached
		}
		b.WriteString(playStatusStyle.Render(status))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(playErrorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(playHelpStyle.Render("r randomise  d default  q quit"))
	b.WriteString("\n")
	return b.String()
}
