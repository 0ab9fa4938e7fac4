package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/tokenweave"
	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/editor"
	"github.com/iw2rmb/tokenweave/plugins/hashtag"
	"github.com/iw2rmb/tokenweave/plugins/mention"
	"github.com/iw2rmb/tokenweave/structured"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var (
		cfgFile string
		debug   string
	)

	cmd := &cobra.Command{
		Use:           "tokenweave-demo",
		Short:         "Structured text editing in the terminal",
		Long:          `A terminal demo of the tokenweave editor with @mention and #hashtag tokens.`,
		Version:       tokenweave.VersionTag(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			log := zerolog.Nop()
			if debug != "" {
				f, err := tea.LogToFile(debug, "tokenweave")
				if err != nil {
					return fmt.Errorf("opening debug log: %w", err)
				}
				defer f.Close()
				log = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
			}
			return run(cfg, log)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tokenweave/config.yaml)")
	cmd.Flags().StringVar(&debug, "debug", "", "write a debug log to this file")
	cmd.Flags().Bool("multiline", true, "allow line breaks")
	cmd.Flags().String("placeholder", "", "text shown while the value is empty")
	cmd.Flags().String("portal-anchor", "", "portal anchor: selection, root or custom")
	cmd.Flags().Int("history-limit", 0, "maximum undo steps")
	cmd.Flags().Duration("idle-timeout", 0, "typing pause that closes an undo step")

	_ = v.BindPFlag("multiline", cmd.Flags().Lookup("multiline"))
	_ = v.BindPFlag("placeholder", cmd.Flags().Lookup("placeholder"))
	_ = v.BindPFlag("portal_anchor", cmd.Flags().Lookup("portal-anchor"))
	_ = v.BindPFlag("history_limit", cmd.Flags().Lookup("history-limit"))
	_ = v.BindPFlag("idle_timeout", cmd.Flags().Lookup("idle-timeout"))
	return cmd
}

func init() {
	// Query the background before the input loop starts so the terminal's
	// reply is not read as keystrokes.
	_ = lipgloss.HasDarkBackground()
}

// sender forwards messages to a program that may not exist yet.
type sender chan tea.Msg

func (s sender) schedule(fn func()) {
	go func() { s <- editor.RunMsg{Fn: fn} }()
}

func (s sender) forward(p *tea.Program) {
	for msg := range s {
		p.Send(msg)
	}
}

func buildEditor(cfg Config, log zerolog.Logger, schedule func(func())) (editor.Model, error) {
	dir := directory(cfg.Users)
	mentions := mention.New(mention.Options{
		Resolve: func(_ context.Context, handle string) (string, error) {
			return dir.name(handle)
		},
		Schedule:   schedule,
		Candidates: dir.candidates,
		Logger:     &log,
	})
	return editor.New(editor.Config{
		Value:        cfg.Value,
		Multiline:    cfg.Multiline,
		Placeholder:  cfg.Placeholder,
		PortalAnchor: cfg.anchor(),
		HistoryLimit: cfg.HistoryLimit,
		IdleTimeout:  cfg.IdleTimeout,
		Plugins:      []structured.Plugin{mentions, hashtag.New()},
		Logger:       &log,
	})
}

func run(cfg Config, log zerolog.Logger) error {
	out := make(sender, 16)
	ed, err := buildEditor(cfg, log, out.schedule)
	if err != nil {
		return fmt.Errorf("creating editor: %w", err)
	}
	p := tea.NewProgram(model{editor: ed.Focus()}, tea.WithAltScreen(), tea.WithMouseCellMotion())
	go out.forward(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

type model struct {
	editor editor.Model
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor = m.editor.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+q" {
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

var helpStyle = lipgloss.NewStyle().Faint(true)

func (m model) View() string {
	eng := m.editor.Engine()
	pos, _ := eng.Buffer().PosFromOffset(eng.Selection().End, buffer.OffsetClamp)
	status := fmt.Sprintf("ln %d, col %d  ctrl+q quit  ctrl+z undo  ctrl+y redo  tab accept", pos.Row+1, pos.Col+1)
	return m.editor.View() + "\n" + helpStyle.Render(status)
}
