package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/pkg/bootstrap"
	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/navigate"
	"github.com/matzehuels/skillgraph/pkg/present"
)

// exploreCommand creates the interactive terminal navigator.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [hierarchy.json|url|dir]",
		Short: "Browse the skill graph interactively in the terminal",
		Long: `Browse the skill graph interactively in the terminal.

Every view is laid out exactly as the renderers would draw it; the table lists
the regions of the current view with their share of the circle.

Keys:
  ↑/↓ or k/j   move
  enter        drill into the selected domain
  esc          back to the whole circle
  tab          switch between the skill and role hierarchies
  r            reload the data
  q            quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runExplore(cmd.Context(), cmd, input, flags, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd, false)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, cmd *cobra.Command, input string, flags layoutFlags, noCache bool) error {
	opts := flags.options(cmd, c.Config)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	load := func(ctx context.Context) (hierarchy.Forest, error) {
		f, _, err := c.loadForest(ctx, runner, input, false)
		return f, err
	}

	frames := newFrameBuffer()
	ctrl := bootstrap.New(bootstrap.Config{
		Source:             opts.Kind(),
		Solver:             runner.Solver,
		Layout:             opts.Layout,
		RelayoutDelay:      c.Config.Layout.RelayoutDelay,
		MaxRelayoutRetries: c.Config.Layout.MaxRelayoutRetries,
		OnFrame:            frames.push,
		Logger:             c.Logger,
	})
	ctrl.Start(ctx, load)
	defer ctrl.Close()

	model := newExploreModel(ctrl, frames, load, opts.Kind())
	// Log lines would tear the alternate screen; failures show up in frames.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Frame delivery
// =============================================================================

// frameBuffer hands controller frames to the UI without ever blocking the
// controller. When the UI falls behind only the newest frames are kept.
type frameBuffer chan bootstrap.Frame

func newFrameBuffer() frameBuffer { return make(frameBuffer, 8) }

func (b frameBuffer) push(f bootstrap.Frame) {
	for {
		select {
		case b <- f:
			return
		default:
		}
		select {
		case <-b:
		default:
		}
	}
}

type frameMsg bootstrap.Frame

func (b frameBuffer) wait() tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-b)
	}
}

// =============================================================================
// exploreModel
// =============================================================================

// navigator is the part of bootstrap.Controller the explorer drives.
type navigator interface {
	Click(path ...string)
	Background()
	SetSource(kind hierarchy.Kind)
	Reload(load bootstrap.LoadFunc)
}

var (
	exploreHeaderStyle  = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	exploreCurrentStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	exploreRowStyle     = lipgloss.NewStyle().Foreground(colorText)
	exploreMutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

type exploreModel struct {
	nav    navigator
	frames frameBuffer
	load   bootstrap.LoadFunc

	source hierarchy.Kind
	frame  bootstrap.Frame
	seen   bool
	cursor int
	height int
}

func newExploreModel(nav navigator, frames frameBuffer, load bootstrap.LoadFunc, source hierarchy.Kind) exploreModel {
	return exploreModel{nav: nav, frames: frames, load: load, source: source, height: 20}
}

func (m exploreModel) Init() tea.Cmd {
	return m.frames.wait()
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = bootstrap.Frame(msg)
		m.seen = true
		if m.frame.State.Source != "" {
			m.source = m.frame.State.Source
		}
		if n := len(m.rows()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, m.frames.wait()

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}
		case "enter":
			if rows := m.rows(); m.cursor < len(rows) {
				m.nav.Click(rows[m.cursor].Name)
			}
		case "esc", "backspace":
			m.nav.Background()
		case "tab":
			m.source = otherSource(m.source)
			m.cursor = 0
			m.nav.SetSource(m.source)
		case "r":
			m.nav.Reload(m.load)
		}
	}
	return m, nil
}

func (m exploreModel) rows() []present.Domain {
	if m.frame.Scene == nil {
		return nil
	}
	return m.frame.Scene.Domains
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(exploreMutedStyle.Render("↑/↓ move  ⏎ drill  esc back  tab source  r reload  q quit"))
	b.WriteString("\n\n")

	if msg := m.status(); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.table())
	b.WriteString("\n")
	if sc := m.frame.Scene; sc.Degraded {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("! some domains stayed isolated after %d attempts", sc.Attempts)))
		b.WriteString("\n")
	} else if m.frame.RetryScheduled {
		b.WriteString(exploreMutedStyle.Render(fmt.Sprintf("relayout %d scheduled", m.frame.Retry+1)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m exploreModel) title() string {
	st := m.frame.State
	if st.Mode == navigate.Drilldown {
		return fmt.Sprintf("%s › %s", m.source, st.ActiveDomain)
	}
	return string(m.source)
}

// status returns the message shown instead of the table, if any.
func (m exploreModel) status() string {
	if !m.seen {
		return StyleDim.Render("Loading...")
	}
	switch m.frame.Status {
	case bootstrap.StatusLoading:
		return StyleDim.Render("Loading...")
	case bootstrap.StatusUnavailable:
		return StyleWarning.Render("Renderer unavailable: " + frameError(m.frame.Err, "gave up waiting"))
	case bootstrap.StatusFailed:
		if errors.Is(m.frame.Err, errors.ErrCodeDataFetch) {
			return StyleWarning.Render("Could not load data: " + frameError(m.frame.Err, "load failed"))
		}
		return StyleWarning.Render("Layout failed: " + frameError(m.frame.Err, "unknown error"))
	}
	if m.frame.Scene == nil {
		if m.frame.Err != nil {
			return StyleWarning.Render(errors.UserMessage(m.frame.Err))
		}
		return StyleDim.Render("Solving...")
	}
	if len(m.frame.Scene.Domains) == 0 {
		return StyleDim.Render("Nothing to show")
	}
	return ""
}

func (m exploreModel) table() string {
	domains := m.rows()
	shares := areaShares(*m.frame.Scene)

	offset := 0
	if m.cursor >= m.height {
		offset = m.cursor - m.height + 1
	}
	end := min(offset+m.height, len(domains))

	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		d := domains[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			d.Name,
			fmt.Sprintf("%d", d.Weight),
			fmt.Sprintf("%.0f%%", d.Frequency),
			fmt.Sprintf("%.1f%%", shares[d.Name]*100),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "Region", "Weight", "Completion", "Area").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return exploreHeaderStyle
			}
			idx := offset + row
			if idx < len(domains) && domains[idx].Isolated {
				return exploreMutedStyle
			}
			if idx == m.cursor {
				return exploreCurrentStyle
			}
			return exploreRowStyle
		})

	return t.Render() + "\n" + exploreMutedStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(domains)))
}

// areaShares returns each domain's polygon area as a fraction of the outline.
func areaShares(sc present.Scene) map[string]float64 {
	total := sc.Outline.Area()
	shares := make(map[string]float64, len(sc.Domains))
	if total <= 0 {
		return shares
	}
	for _, d := range sc.Domains {
		shares[d.Name] = d.Polygon.Area() / total
	}
	return shares
}

func frameError(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return errors.UserMessage(err)
}

func otherSource(k hierarchy.Kind) hierarchy.Kind {
	if k == hierarchy.KindRole {
		return hierarchy.KindSkill
	}
	return hierarchy.KindRole
}
