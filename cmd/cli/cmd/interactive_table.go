package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	cliapi "label-scanner/internal/cli"
	"label-scanner/internal/database"
)

// KeyMap represents the key bindings for the interactive table
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Rescan  key.Binding
	Delete  key.Binding
	Details key.Binding
	Matches key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Matches: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "matches"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// InteractiveTable represents the interactive scan history browser
type InteractiveTable struct {
	table             table.Model
	scans             []database.Scan
	client            *cliapi.Client
	keys              KeyMap
	loading           bool
	spinner           spinner.Model
	err               error
	message           string
	showHelp          bool
	quitting          bool
	config            *cliapi.Config
	useColor          bool
	showDeleteConfirm bool
	deleteTarget      int // ID of scan to delete
	showMatches       bool
	matchesData       []database.ScanMatch
	matchesScanID     int
	matchesScroll     int
}

var scanColumns = []string{"ID", "RECIPIENT", "APARTMENT", "BARCODE", "RESCANS", "CREATED"}

// NewInteractiveTable creates a new interactive table
func NewInteractiveTable(scans []database.Scan, client *cliapi.Client, config *cliapi.Config) *InteractiveTable {
	columns := make([]table.Column, len(scanColumns))
	for i, name := range scanColumns {
		columns[i] = table.Column{
			Title: name,
			Width: calculateColumnWidth(i, name, scans),
		}
	}

	rows := make([]table.Row, len(scans))
	for i, scan := range scans {
		rows[i] = scanToRow(scan)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	useColor := !config.NoColor && isatty.IsTerminal(os.Stdout.Fd())

	if useColor {
		styles := table.DefaultStyles()
		styles.Header = styles.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(false)
		styles.Selected = styles.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(styles)
	}

	return &InteractiveTable{
		table:    t,
		scans:    scans,
		client:   client,
		keys:     DefaultKeyMap(),
		spinner:  s,
		config:   config,
		useColor: useColor,
	}
}

// Init initializes the interactive table
func (m InteractiveTable) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m InteractiveTable) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle confirmation dialog first
		if m.showDeleteConfirm {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				return m.confirmDelete()
			case key.Matches(msg, m.keys.Cancel):
				m.showDeleteConfirm = false
				m.deleteTarget = 0
				m.message = "Delete cancelled"
				return m, nil
			}
			// Don't process other keys when in confirmation mode
			return m, nil
		}

		// Handle matches view navigation
		if m.showMatches {
			switch {
			case key.Matches(msg, m.keys.Up):
				if m.matchesScroll > 0 {
					m.matchesScroll--
				}
				return m, nil
			case key.Matches(msg, m.keys.Down):
				maxScroll := len(m.matchesData) - matchesPageSize
				if maxScroll < 0 {
					maxScroll = 0
				}
				if m.matchesScroll < maxScroll {
					m.matchesScroll++
				}
				return m, nil
			case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
				m.showMatches = false
				m.matchesData = nil
				m.matchesScanID = 0
				m.matchesScroll = 0
				m.message = ""
				return m, nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Rescan):
			return m.handleRescan()

		case key.Matches(msg, m.keys.Up):
			m.table, cmd = m.table.Update(msg)
			return m, cmd

		case key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd

		case key.Matches(msg, m.keys.Details):
			return m.handleDetails()

		case key.Matches(msg, m.keys.Matches):
			return m.handleMatches()

		case key.Matches(msg, m.keys.Delete):
			return m.handleDelete()
		}

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		return m, nil

	case rescanCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.message = fmt.Sprintf("Error rescanning: %v", msg.err)
		} else {
			m = m.updateScanInTable(msg.scan)
			m.message = fmt.Sprintf("Scan %d rescanned - recipient: %s", msg.scan.ID, msg.scan.RecipientName)
		}
		return m, nil

	case deleteCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.message = fmt.Sprintf("Error deleting scan: %v", msg.err)
		} else {
			m = m.removeScanFromTable(msg.scanID)
			m.message = "Scan deleted successfully"
		}
		return m, nil

	case matchesCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.message = fmt.Sprintf("Error fetching matches: %v", msg.err)
		} else {
			m.showMatches = true
			m.matchesData = msg.matches
			m.matchesScanID = msg.scanID
			m.matchesScroll = 0
			m.message = ""
			m.err = nil
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the interactive table
func (m InteractiveTable) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	if m.showHelp {
		b.WriteString(m.helpView())
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
	}

	if m.showMatches {
		b.WriteString(m.matchesView())
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.showDeleteConfirm {
		confirmMsg := fmt.Sprintf("Delete scan ID %d? (y/N): ", m.deleteTarget)
		if m.useColor {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render(confirmMsg))
		} else {
			b.WriteString(confirmMsg)
		}
		b.WriteString("\n")
	}

	if m.message != "" {
		if m.err != nil {
			if m.useColor {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.message))
			} else {
				b.WriteString(m.message)
			}
		} else {
			if m.useColor {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render(m.message))
			} else {
				b.WriteString(m.message)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())

	return b.String()
}

// helpView returns the help view
func (m InteractiveTable) helpView() string {
	help := strings.Builder{}
	help.WriteString("Help:\n")
	help.WriteString("  ↑/k         - Move up\n")
	help.WriteString("  ↓/j         - Move down\n")
	help.WriteString("  r           - Rescan selected scan\n")
	help.WriteString("  d           - Delete scan\n")
	help.WriteString("  enter       - View details\n")
	help.WriteString("  m           - View ranked matches\n")
	help.WriteString("  ?           - Toggle help\n")
	help.WriteString("  q/ctrl+c    - Quit\n")
	return help.String()
}

// statusLine returns the status line
func (m InteractiveTable) statusLine() string {
	if m.showMatches {
		return "Matches View | Press q/esc to return to scan list"
	}

	if len(m.scans) == 0 {
		return "No scans found"
	}

	selected := m.table.Cursor()
	total := len(m.scans)
	return fmt.Sprintf("Scan %d of %d | Press ? for help", selected+1, total)
}

const matchesPageSize = 10

// calculateColumnWidth calculates the width for a column based on its content
func calculateColumnWidth(col int, title string, scans []database.Scan) int {
	width := len(title)

	samples := len(scans)
	if samples > 10 {
		samples = 10
	}

	for i := 0; i < samples; i++ {
		value := scanColumnValue(scans[i], col)
		if len(value) > width {
			width = len(value)
		}
	}

	if width < 8 {
		width = 8
	}
	if width > 40 {
		width = 40
	}

	return width
}

// scanToRow converts a scan to a table row
func scanToRow(scan database.Scan) table.Row {
	row := make(table.Row, len(scanColumns))
	for i := range scanColumns {
		row[i] = scanColumnValue(scan, i)
	}
	return row
}

// scanColumnValue returns the value for a specific column from a scan
func scanColumnValue(scan database.Scan, col int) string {
	switch col {
	case 0:
		return strconv.Itoa(scan.ID)
	case 1:
		return scan.RecipientName
	case 2:
		return scan.Apartment
	case 3:
		return scan.Barcode
	case 4:
		return strconv.Itoa(scan.RescanCount)
	case 5:
		return scan.CreatedAt.Format("2006-01-02")
	default:
		return ""
	}
}

// rescanCompleteMsg is sent when a rescan operation completes
type rescanCompleteMsg struct {
	scan *database.Scan
	err  error
}

// deleteCompleteMsg is sent when a delete operation completes
type deleteCompleteMsg struct {
	scanID int
	err    error
}

// matchesCompleteMsg is sent when a matches fetch operation completes
type matchesCompleteMsg struct {
	scanID  int
	matches []database.ScanMatch
	err     error
}

// handleRescan handles the rescan operation
func (m InteractiveTable) handleRescan() (InteractiveTable, tea.Cmd) {
	if len(m.scans) == 0 {
		m.message = "No scans to rescan"
		return m, nil
	}

	selected := m.table.Cursor()
	if selected >= len(m.scans) {
		m.message = "Invalid selection"
		return m, nil
	}

	scan := m.scans[selected]
	m.loading = true
	m.message = ""
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.rescanScan(scan.ID),
	)
}

// rescanScan reruns recognition for a specific scan
func (m InteractiveTable) rescanScan(id int) tea.Cmd {
	return func() tea.Msg {
		scan, err := m.client.RescanScan(id, false)
		if err != nil {
			return rescanCompleteMsg{err: err}
		}
		return rescanCompleteMsg{scan: scan}
	}
}

// handleDetails handles viewing scan details
func (m InteractiveTable) handleDetails() (InteractiveTable, tea.Cmd) {
	if len(m.scans) == 0 {
		m.message = "No scans to view"
		return m, nil
	}

	selected := m.table.Cursor()
	if selected >= len(m.scans) {
		m.message = "Invalid selection"
		return m, nil
	}

	scan := m.scans[selected]

	details := fmt.Sprintf(`
Scan Details:
ID: %d
Recipient: %s
Apartment: %s
Barcode: %s
Image: %s
Rescans: %d
Created: %s
Last Rescan: %s
`,
		scan.ID,
		scan.RecipientName,
		scan.Apartment,
		scan.Barcode,
		scan.ImagePath,
		scan.RescanCount,
		scan.CreatedAt.Format("2006-01-02 15:04:05"),
		func() string {
			if scan.LastRescan != nil {
				return scan.LastRescan.Format("2006-01-02 15:04:05")
			}
			return "never"
		}(),
	)

	m.message = details
	return m, nil
}

// handleMatches handles viewing ranked recipient matches
func (m InteractiveTable) handleMatches() (InteractiveTable, tea.Cmd) {
	if len(m.scans) == 0 {
		m.message = "No scans to view matches for"
		return m, nil
	}

	selected := m.table.Cursor()
	if selected >= len(m.scans) {
		m.message = "Invalid selection"
		return m, nil
	}

	scan := m.scans[selected]
	m.loading = true
	m.message = ""
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.fetchMatches(scan.ID),
	)
}

// handleDelete handles deleting a scan
func (m InteractiveTable) handleDelete() (InteractiveTable, tea.Cmd) {
	if len(m.scans) == 0 {
		m.message = "No scans to delete"
		return m, nil
	}

	selected := m.table.Cursor()
	if selected >= len(m.scans) {
		m.message = "Invalid selection"
		return m, nil
	}

	scan := m.scans[selected]
	m.showDeleteConfirm = true
	m.deleteTarget = scan.ID
	m.message = ""
	m.err = nil

	return m, nil
}

// confirmDelete executes the delete operation after confirmation
func (m InteractiveTable) confirmDelete() (InteractiveTable, tea.Cmd) {
	m.showDeleteConfirm = false
	m.loading = true
	m.message = ""
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.deleteScan(m.deleteTarget),
	)
}

// deleteScan deletes a specific scan
func (m InteractiveTable) deleteScan(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.client.DeleteScan(id)
		return deleteCompleteMsg{scanID: id, err: err}
	}
}

// updateScanInTable replaces a scan's row after a successful rescan
func (m InteractiveTable) updateScanInTable(updated *database.Scan) InteractiveTable {
	for i := range m.scans {
		if m.scans[i].ID == updated.ID {
			m.scans[i] = *updated
			break
		}
	}

	rows := make([]table.Row, len(m.scans))
	for i, scan := range m.scans {
		rows[i] = scanToRow(scan)
	}
	m.table.SetRows(rows)

	return m
}

// removeScanFromTable removes a scan from the table after successful deletion
func (m InteractiveTable) removeScanFromTable(scanID int) InteractiveTable {
	newScans := make([]database.Scan, 0, len(m.scans))
	for _, scan := range m.scans {
		if scan.ID != scanID {
			newScans = append(newScans, scan)
		}
	}
	m.scans = newScans

	rows := make([]table.Row, len(m.scans))
	for i, scan := range m.scans {
		rows[i] = scanToRow(scan)
	}
	m.table.SetRows(rows)

	return m
}

// fetchMatches fetches ranked matches for a specific scan
func (m InteractiveTable) fetchMatches(scanID int) tea.Cmd {
	return func() tea.Msg {
		scan, err := m.client.GetScan(scanID)
		if err != nil {
			return matchesCompleteMsg{scanID: scanID, err: err}
		}
		return matchesCompleteMsg{scanID: scanID, matches: scan.Matches}
	}
}

// matchesView renders the ranked matches view
func (m InteractiveTable) matchesView() string {
	var b strings.Builder

	var scanDesc string
	for _, scan := range m.scans {
		if scan.ID == m.matchesScanID {
			scanDesc = fmt.Sprintf("ID %d - %s", scan.ID, scan.RecipientName)
			break
		}
	}

	title := fmt.Sprintf("Ranked Matches for %s", scanDesc)
	if m.useColor {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
		b.WriteString(titleStyle.Render(title))
	} else {
		b.WriteString(title)
	}
	b.WriteString("\n")

	instructions := "Use ↑/↓ to scroll, q/esc to close"
	if m.useColor {
		instrStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		b.WriteString(instrStyle.Render(instructions))
	} else {
		b.WriteString(instructions)
	}
	b.WriteString("\n\n")

	if len(m.matchesData) == 0 {
		b.WriteString("No matches found.\n")
		return b.String()
	}

	header := "RANK  RECIPIENT                      SCORE   TYPE"
	if m.useColor {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240"))
		b.WriteString(headerStyle.Render(header))
	} else {
		b.WriteString(header)
	}
	b.WriteString("\n")

	separator := strings.Repeat("-", len(header))
	if m.useColor {
		sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		b.WriteString(sepStyle.Render(separator))
	} else {
		b.WriteString(separator)
	}
	b.WriteString("\n")

	start := m.matchesScroll
	end := start + matchesPageSize
	if end > len(m.matchesData) {
		end = len(m.matchesData)
	}

	for i := start; i < end; i++ {
		match := m.matchesData[i]

		matchType := match.MatchType
		if m.useColor {
			matchType = m.matchTypeColor(match.MatchType)
		}

		row := fmt.Sprintf("%-5d %-30s %-7.1f %s",
			match.Position,
			truncateString(match.Recipient, 30),
			match.Score,
			matchType)

		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(m.matchesData) > matchesPageSize {
		scrollInfo := fmt.Sprintf("\nShowing %d-%d of %d matches", start+1, end, len(m.matchesData))
		if m.useColor {
			scrollStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
			b.WriteString(scrollStyle.Render(scrollInfo))
		} else {
			b.WriteString(scrollInfo)
		}
	}

	return b.String()
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// matchTypeColor returns colored match type text
func (m InteractiveTable) matchTypeColor(matchType string) string {
	if m.useColor {
		var color lipgloss.Color
		switch matchType {
		case "full":
			color = lipgloss.Color("82") // Green
		case "all_words", "first_and_last":
			color = lipgloss.Color("226") // Yellow
		case "partial":
			color = lipgloss.Color("75") // Blue
		case "fuzzy":
			color = lipgloss.Color("208") // Orange
		default:
			color = lipgloss.Color("244") // Gray
		}
		return lipgloss.NewStyle().Foreground(color).Render(matchType)
	}
	return matchType
}

// runInteractiveTable runs the interactive scan browser
func runInteractiveTable(config *cliapi.Config, client *cliapi.Client, scans []database.Scan) error {
	interactiveTable := NewInteractiveTable(scans, client, config)

	p := tea.NewProgram(interactiveTable, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
