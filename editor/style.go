package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text        lipgloss.Style
	Selection   lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style

	// Token styles every token; Tags refines it by element tag, innermost
	// tag first.
	Token       lipgloss.Style
	ActiveToken lipgloss.Style
	Tags        map[string]lipgloss.Style

	Portal lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:        lipgloss.NewStyle(),
		Selection:   lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Token:       lipgloss.NewStyle().Bold(true),
		ActiveToken: lipgloss.NewStyle().Underline(true),
		Tags: map[string]lipgloss.Style{
			"mention": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"hashtag": lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		},
		Portal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// tokenStyle resolves the style of a grapheme inside a token.
func (s Style) tokenStyle(tags []string, active bool) lipgloss.Style {
	st := s.Token.Inherit(s.Text)
	for i := len(tags) - 1; i >= 0; i-- {
		if ts, ok := s.Tags[tags[i]]; ok {
			st = ts.Inherit(st)
			break
		}
	}
	if active {
		st = s.ActiveToken.Inherit(st)
	}
	return st
}
