package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lapse/internal/cache"
	"lapse/internal/player"
)

// Styles
var (
	// Color palette - Tokyo Night inspired
	primaryColor    = lipgloss.Color("#7aa2f7") // blue
	secondaryColor  = lipgloss.Color("#9ece6a") // green
	warningColor    = lipgloss.Color("#e0af68") // yellow
	errorColor      = lipgloss.Color("#f7768e") // red
	textColor       = lipgloss.Color("#c0caf5") // foreground
	dimColor        = lipgloss.Color("#565f89") // comment
	backgroundColor = lipgloss.Color("#1a1b26") // background

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	tabStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(backgroundColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 2)

	listItemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(backgroundColor).
				Background(primaryColor).
				Bold(true).
				PaddingLeft(1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Padding(0, 1)

	frameBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(textColor)

	okStyle = lipgloss.NewStyle().
		Foreground(secondaryColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)
)

// FormatBytes converts a byte count into a human-readable string.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// View implements tea.Model.View and renders the whole browser screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	list := m.renderList()
	info := m.renderFrameInfo()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", info))

	b.WriteString("\n")
	if errLine := m.renderErrors(); errLine != "" {
		b.WriteString(errLine)
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader shows the application identity, the archive root, and the
// free space left for the capture process to fill.
func (m Model) renderHeader() string {
	left := titleStyle.Render(GetFullVersionString())
	root := subtitleStyle.Render("  " + m.store.Root())
	free := ""
	if m.diskFree > 0 {
		free = subtitleStyle.Render("  •  " + FormatBytes(m.diskFree) + " free")
	}
	return left + root + free
}

// renderTabs shows the two view modes with the active one highlighted.
func (m Model) renderTabs() string {
	imagesTab := tabStyle.Render("📁 Recordings")
	videosTab := tabStyle.Render("🎬 Videos")
	if m.player.Mode() == player.ModeVideos {
		videosTab = activeTabStyle.Render("🎬 Videos")
	} else {
		imagesTab = activeTabStyle.Render("📁 Recordings")
	}
	return imagesTab + " " + videosTab
}

// renderList draws the selection pane: dated folders in images mode,
// video recordings (most recent last) in videos mode.
func (m Model) renderList() string {
	list := m.activeList()
	selected := m.player.Selected()

	var rows []string
	if len(list) == 0 {
		rows = append(rows, labelStyle.Render("(empty)"))
	}

	// Keep the cursor visible inside the pane.
	visible := m.height - 14
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(list))

	for _, name := range list[start:end] {
		if name == selected {
			rows = append(rows, selectedItemStyle.Render("▶ "+name))
		} else {
			rows = append(rows, listItemStyle.Render(name))
		}
	}

	return paneStyle.Width(30).Render(strings.Join(rows, "\n"))
}

// renderFrameInfo draws the playback pane: position, current frame, the
// display resource, capture time, and cache state for videos.
func (m Model) renderFrameInfo() string {
	var rows []string

	frames := m.player.Frames()
	name, ok := m.player.CurrentFrame()

	switch {
	case m.loadingFiles:
		rows = append(rows, warnStyle.Render("⏳ Loading frames..."))
	case m.player.Mode() == player.ModeVideos && m.frames.Phase() == cache.PhaseRequesting:
		rows = append(rows, warnStyle.Render("⏳ Extracting frames from "+m.frames.Video()+"..."))
	case m.player.Mode() == player.ModeVideos && m.frames.Phase() == cache.PhaseFailed:
		rows = append(rows, errStyle.Render("❌ Extraction failed"))
	case !ok:
		rows = append(rows, labelStyle.Render("No frames to display"))
	}

	if ok {
		rows = append(rows,
			labelStyle.Render("Frame    ")+valueStyle.Render(name),
			labelStyle.Render("Position ")+valueStyle.Render(
				fmt.Sprintf("%d / %d", m.player.Index()+1, len(frames))),
		)
		if m.frameTimeOK {
			rows = append(rows,
				labelStyle.Render("Captured ")+valueStyle.Render(m.frameTime.Format("2006-01-02 15:04:05")))
		}
		if res := m.player.Resource(); res != nil {
			rows = append(rows,
				labelStyle.Render("Loaded   ")+okStyle.Render(FormatBytes(uint64(res.Len()))))
		} else if m.frameErr == nil {
			rows = append(rows, warnStyle.Render("Fetching frame..."))
		}
		rows = append(rows, "", m.renderScrubBar(len(frames)))
	}

	return frameBoxStyle.Width(max(m.width-40, 40)).Render(strings.Join(rows, "\n"))
}

// renderScrubBar draws a simple position bar across the active sequence.
func (m Model) renderScrubBar(total int) string {
	width := max(m.width-50, 20)
	if total <= 0 {
		return ""
	}
	pos := 0
	if total > 1 {
		pos = m.player.Index() * (width - 1) / (total - 1)
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			b.WriteString("█")
		} else {
			b.WriteString("─")
		}
	}
	return okStyle.Render(b.String())
}

// renderErrors surfaces the per-index last errors. Each index fails
// independently; everything here recovers via refresh.
func (m Model) renderErrors() string {
	var parts []string
	if m.folderErr != nil {
		parts = append(parts, "folders: "+m.folderErr.Error())
	}
	if m.videoErr != nil {
		parts = append(parts, "videos: "+m.videoErr.Error())
	}
	if m.fileErr != nil {
		parts = append(parts, "frames: "+m.fileErr.Error())
	}
	if m.frameErr != nil {
		parts = append(parts, "display: "+m.frameErr.Error())
	}
	if m.player.Mode() == player.ModeVideos && m.frames.Err() != nil {
		parts = append(parts, "extraction: "+m.frames.Err().Error())
	}
	if len(parts) == 0 {
		return ""
	}
	return errStyle.Render("⚠️  " + strings.Join(parts, " | "))
}

// renderHelp shows the key bindings for the active mode.
func (m Model) renderHelp() string {
	if m.player.Mode() == player.ModeVideos {
		return helpStyle.Render(
			"←/→ video • ,/. frame • </> ±10 • ctrl+←/→ ±100 • tab mode • r refresh • q quit")
	}
	return helpStyle.Render(
		"↑/↓ folder • ←/→ frame • shift ±10 • ctrl ±100 • g/G ends • tab mode • r refresh • q quit")
}
