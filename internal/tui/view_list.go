package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

// rowItem adapts a Row for the bubbles list.
type rowItem struct{ Row }

func (i rowItem) Title() string { return i.SSID }

func (i rowItem) Description() string {
	parts := []string{fmt.Sprintf("%d%%", i.Strength)}
	if band := i.Band.String(); band != "" {
		parts = append(parts, band)
	}
	parts = append(parts, i.Security.String())
	return strings.Join(parts, " ")
}

func (i rowItem) FilterValue() string { return i.SSID }

// itemDelegate is our custom list delegate
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(rowItem)
	if !ok {
		// Fallback to default render for any other item types
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}

	title := i.SSID

	// Add icons for security
	var icon string
	switch i.Security {
	case wifi.SecurityOpen:
		icon = "🔓 "
	case wifi.SecurityUnknown:
		icon = "❓ "
	default:
		icon = "🔒 "
	}
	title = icon + title

	// Define column width for SSID
	ssidColumnWidth := 30
	titleLen := len([]rune(title))

	// Truncate title if it's too long
	if titleLen > ssidColumnWidth {
		title = string([]rune(title)[:ssidColumnWidth-1]) + "…"
		titleLen = ssidColumnWidth
	}
	padding := strings.Repeat(" ", ssidColumnWidth-titleLen)

	// Apply custom styling based on connection state
	var titleStyle lipgloss.Style
	if i.Connected {
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Success).Bold(true)
	} else if i.Known {
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Success)
	} else {
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	}
	title = titleStyle.Render(title)

	// Prepare description parts
	strengthPart := i.Description()
	suffix := ""
	switch {
	case i.Busy:
		suffix = " (working...)"
	case i.Connected:
		suffix = " (Connected)"
	}

	var desc string
	if i.Strength > 0 {
		signalHigh, signalLow := CurrentTheme.SignalHighLight, CurrentTheme.SignalLowLight
		if lipgloss.HasDarkBackground() {
			signalHigh, signalLow = CurrentTheme.SignalHighDark, CurrentTheme.SignalLowDark
		}
		start, _ := colorful.Hex(signalLow)
		end, _ := colorful.Hex(signalHigh)
		p := float64(i.Strength) / 100.0
		blend := start.BlendRgb(end, p)
		signalColor := lipgloss.Color(blend.Hex())

		// Style only the signal part with color
		desc = lipgloss.NewStyle().Foreground(signalColor).Render(strengthPart) + suffix
	} else {
		desc = lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(strengthPart + suffix)
	}

	if i.Err != nil {
		desc += lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(" ✗ " + i.Err.Error())
	}

	// Now combine and render the full line
	line := title + padding + " " + desc
	var lineStyle lipgloss.Style
	if index == m.Index() {
		lineStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true). // Left border
			BorderForeground(CurrentTheme.Primary)
	} else {
		lineStyle = lipgloss.NewStyle().PaddingLeft(1)
	}
	fmt.Fprint(w, lineStyle.Render(line))
}

// ListModel is the base view: the live network list. It renders rows handed
// down by the root and expresses user intents back up as messages; it never
// touches the store or backend itself.
type ListModel struct {
	list          list.Model
	showDetail    bool
	width, height int
}

func NewListModel() *ListModel {
	delegate := itemDelegate{}
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = fmt.Sprintf("%-31s %s", "WiFi Network", "Signal")
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect/disconnect")),
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
			key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "auto-scan")),
			key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forget")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoconnect")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "share QR")),
		}
	}
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	return &ListModel{list: l}
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

// setRows replaces the list contents, keeping the selection on the same SSID
// when it survives the refresh.
func (m *ListModel) setRows(rows []Row) {
	selected := ""
	if it, ok := m.list.SelectedItem().(rowItem); ok {
		selected = it.SSID
	}

	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{Row: r}
	}
	m.list.SetItems(items)

	if selected != "" {
		for i, it := range items {
			if it.(rowItem).SSID == selected {
				m.list.Select(i)
				break
			}
		}
	}
}

func (m *ListModel) selectedRow() (Row, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return Row{}, false
	}
	return it.Row, true
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
		bh, bv := listBorderStyle.GetFrameSize()
		extraVerticalSpace := 4
		m.list.SetSize(msg.Width-h-bh, msg.Height-v-bv-extraVerticalSpace)
		m.width = msg.Width
		m.height = msg.Height

	case rowsMsg:
		m.setRows(msg.rows)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			return m, func() tea.Msg { return scanRequestMsg{rescan: true} }
		case "S":
			return m, func() tea.Msg { return autoScanToggleMsg{} }
		case "d":
			m.showDetail = !m.showDetail
			return m, nil
		case "f":
			if row, ok := m.selectedRow(); ok && row.Known {
				return m, func() tea.Msg {
					return PushMsg{Model: NewForgetModel(row)}
				}
			}
		case "a":
			if row, ok := m.selectedRow(); ok && row.Known {
				action := engine.Action{
					Kind:   engine.KindAutoConnect,
					SSID:   row.SSID,
					Enable: !row.AutoConnect,
				}
				return m, func() tea.Msg { return submitMsg{action: action} }
			}
		case "r":
			if row, ok := m.selectedRow(); ok && row.Known {
				return m, func() tea.Msg { return shareRequestMsg{row: row} }
			}
		case "enter":
			row, ok := m.selectedRow()
			if !ok {
				break
			}
			kind := engine.KindConnect
			if row.Connected {
				kind = engine.KindDisconnect
			}
			action := engine.Action{Kind: kind, SSID: row.SSID}
			return m, func() tea.Msg { return submitMsg{action: action} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ListModel) View() string {
	var viewBuilder strings.Builder
	listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	viewBuilder.WriteString(listBorderStyle.Render(m.list.View()))

	if m.showDetail {
		if row, ok := m.selectedRow(); ok {
			viewBuilder.WriteString("\n")
			viewBuilder.WriteString(renderDetail(row))
		}
	}

	// Custom status bar
	statusText := ""
	if len(m.list.Items()) > 0 {
		statusText = fmt.Sprintf("%d/%d", m.list.Index()+1, len(m.list.Items()))
	}
	viewBuilder.WriteString("\n")
	viewBuilder.WriteString(statusText)
	return lipgloss.NewStyle().Margin(1, 2).Render(viewBuilder.String())
}

// renderDetail shows the selected row's attributes under the list.
func renderDetail(row Row) string {
	labelStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle)
	line := func(label, value string) string {
		return labelStyle.Render(label+": ") + value
	}

	state := "Not connected"
	switch {
	case row.Busy:
		state = "Working..."
	case row.Connected:
		state = "Connected"
	}

	lines := []string{
		line("SSID", row.SSID),
		line("Signal", fmt.Sprintf("%d%%", row.Strength)),
		line("Security", row.Security.String()),
		line("State", state),
	}
	if band := row.Band.String(); band != "" {
		lines = append(lines, line("Band", band))
	}
	if row.Known {
		auto := "no"
		if row.AutoConnect {
			auto = "yes"
		}
		lines = append(lines, line("Saved", "yes"), line("Autoconnect", auto))
	} else {
		lines = append(lines, line("Saved", "no"))
	}
	if row.Err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("Last error: "+row.Err.Error()))
	}

	detailStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 1)
	return detailStyle.Render(strings.Join(lines, "\n"))
}
