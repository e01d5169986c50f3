package app

import (
	"strings"

	"github.com/llehouerou/lull/internal/playback"
	"github.com/llehouerou/lull/internal/sleeptimer"
	"github.com/llehouerou/lull/internal/ui/render"
	"github.com/llehouerou/lull/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	st := styles.T().S()
	inner := max(m.width-4, 20)

	var body string
	if m.picking {
		body = m.renderPicker(inner)
	} else {
		body = m.renderNowPlaying(inner)
	}

	var b strings.Builder
	b.WriteString(st.Panel.Width(inner + 2).Render(body))
	b.WriteString("\n")
	b.WriteString(m.renderNotice(inner))
	b.WriteString("\n")
	if m.picking {
		b.WriteString(m.help.View(pickerHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(playerHelp{m.keys}))
	}
	return b.String()
}

func (m Model) renderNowPlaying(width int) string {
	t := styles.T()
	st := t.S()

	title, description := "No stream", ""
	if m.stream != nil {
		title = m.stream.Title
		description = m.stream.Description
	}

	lines := []string{
		render.Row(st.Subtle.Render("lull"), m.renderState(), width),
		styles.Gradient(render.Truncate(title, width), t.Dusk, t.Dawn),
		st.Muted.Render(render.Truncate(description, width)),
		"",
		render.Row(m.renderTimer(), m.renderWifiOnly(), width),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderState() string {
	st := styles.T().S()
	switch m.state {
	case playback.StatePlaying:
		return st.Playing.Render("▶ Playing")
	case playback.StateLoading:
		return st.Base.Render("… Connecting")
	case playback.StatePaused:
		return st.Muted.Render("‖ Paused")
	case playback.StateStopped:
		return st.Subtle.Render("■ Stopped")
	}
	return ""
}

func (m Model) renderTimer() string {
	st := styles.T().S()
	if m.timer <= 0 {
		return st.Subtle.Render("sleep off")
	}
	return st.Base.Render("sleep " + sleeptimer.FormatRemaining(m.timer))
}

func (m Model) renderWifiOnly() string {
	st := styles.T().S()
	if m.wifiOnly {
		return st.Base.Render("wifi only")
	}
	return st.Subtle.Render("any network")
}

func (m Model) renderPicker(width int) string {
	st := styles.T().S()
	lines := make([]string, 0, len(m.streams))
	for i, s := range m.streams {
		marker := "  "
		if m.stream != nil && m.stream.ID == s.ID {
			marker = "• "
		}
		line := render.Fit(marker+s.Title, width)
		if i == m.cursor {
			line = st.Cursor.Render(line)
		} else {
			line = st.Base.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderNotice(width int) string {
	if m.notice == "" {
		return ""
	}
	st := styles.T().S()
	text := render.Truncate(m.notice, width)
	switch m.noticeKind {
	case noticeError:
		return st.Error.Render(text)
	case noticeWarning:
		return st.Warning.Render(text)
	case noticeInfo:
		return st.Muted.Render(text)
	}
	return text
}
