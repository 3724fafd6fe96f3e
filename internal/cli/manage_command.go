package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yt-transcript-harvester/internal/channels"
)

type manageMode int

const (
	manageModeBrowse manageMode = iota
	manageModeForm
	manageModeDeleteConfirm
)

type manageFormKind int

const (
	manageFormKindChannel manageFormKind = iota
	manageFormKindGlobal
)

type manageFieldKind int

const (
	manageFieldString manageFieldKind = iota
	manageFieldInt
	manageFieldBool
)

type manageFormField struct {
	Key      string
	Label    string
	Help     string
	Kind     manageFieldKind
	Value    string
	Required bool
}

type manageForm struct {
	Kind        manageFormKind
	Title       string
	IsEdit      bool
	ChannelName string
	Fields      []manageFormField
	Index       int
	Input       textinput.Model
	Error       string
	Saving      bool
}

type manageModel struct {
	configPath string
	channels   []channels.Channel
	global     channels.GlobalSettings
	cursor     int
	width      int
	height     int
	mode       manageMode
	form       *manageForm

	confirmDeleteName   string
	statusMessage       string
	launchHarvestActive bool
	fatalErr            error
}

type manageLoadedMsg struct {
	channels []channels.Channel
	global   channels.GlobalSettings
	err      error
}

type manageSaveMsg struct {
	message string
	err     error
}

type manageDeleteMsg struct {
	message string
	err     error
}

const (
	manageActionHarvestActive = iota
	manageActionGlobalSettings
)

var manageActions = []string{
	"Harvest Active Channels",
	"Global Settings",
}

var (
	manageTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	manageMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	manageErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	manageOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	managePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	manageSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runManage(args []string) error {
	fs := flag.NewFlagSet("manage", flag.ContinueOnError)
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("manage requires an interactive terminal (TTY)")
	}

	m := manageModel{
		configPath: strings.TrimSpace(*config),
		mode:       manageModeBrowse,
		cursor:     0,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("manage requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(manageModel); ok {
		if fm.launchHarvestActive {
			fmt.Println("harvest active channels: starting...")
			return runHarvest([]string{
				"--all-channels",
				"--active-only",
				"--config", fm.configPath,
			})
		}
		return fm.fatalErr
	}
	return nil
}

func (m manageModel) Init() tea.Cmd {
	return loadChannelsCmd(m.configPath)
}

func (m manageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form.Input.Width = clampInt(m.width-8, 20, 120)
		}
		return m, nil
	case manageLoadedMsg:
		if msg.err != nil {
			m.fatalErr = msg.err
			return m, tea.Quit
		}
		m.channels = msg.channels
		m.global = msg.global
		if m.cursor < 0 {
			m.cursor = 0
		}
		if total := m.totalBrowseRows(); m.cursor > total-1 {
			m.cursor = total - 1
		}
		return m, nil
	case manageSaveMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.Error = msg.err.Error()
				m.form.Saving = false
			}
			return m, nil
		}
		m.mode = manageModeBrowse
		m.form = nil
		m.statusMessage = msg.message
		return m, loadChannelsCmd(m.configPath)
	case manageDeleteMsg:
		m.mode = manageModeBrowse
		m.confirmDeleteName = ""
		if msg.err != nil {
			m.statusMessage = "error: " + msg.err.Error()
			return m, nil
		}
		m.statusMessage = msg.message
		return m, loadChannelsCmd(m.configPath)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case manageModeBrowse:
		return m.updateBrowse(keyMsg)
	case manageModeForm:
		return m.updateForm(keyMsg)
	case manageModeDeleteConfirm:
		return m.updateDeleteConfirm(keyMsg)
	default:
		return m, nil
	}
}

func (m manageModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	totalItems := m.totalBrowseRows()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < totalItems-1 {
			m.cursor++
		}
		return m, nil
	case " ", "space":
		if m.isActionCursor() || m.cursor >= len(m.channels) {
			return m, nil
		}
		return m, toggleChannelActiveCmd(m.configPath, m.channels[m.cursor])
	case "n":
		m.mode = manageModeForm
		m.form = newManageChannelForm(nil, m.width)
		m.statusMessage = ""
		return m, nil
	case "r":
		return m, loadChannelsCmd(m.configPath)
	case "enter", "e":
		if m.isActionCursor() {
			switch m.selectedActionIndex() {
			case manageActionHarvestActive:
				m.statusMessage = "harvest active channels: launching..."
				m.launchHarvestActive = true
				return m, tea.Quit
			case manageActionGlobalSettings:
				m.mode = manageModeForm
				m.form = newManageGlobalForm(m.global, m.width)
				m.statusMessage = ""
				return m, nil
			}
			return m, nil
		}
		if m.cursor == len(m.channels) {
			m.mode = manageModeForm
			m.form = newManageChannelForm(nil, m.width)
			m.statusMessage = ""
			return m, nil
		}
		if len(m.channels) == 0 {
			m.statusMessage = "no channels configured yet"
			return m, nil
		}
		selected := m.channels[m.cursor]
		m.mode = manageModeForm
		m.form = newManageChannelForm(&selected, m.width)
		m.statusMessage = ""
		return m, nil
	case "d":
		if len(m.channels) == 0 || m.cursor >= len(m.channels) {
			m.statusMessage = "select a channel to delete"
			return m, nil
		}
		m.mode = manageModeDeleteConfirm
		m.confirmDeleteName = m.channels[m.cursor].Name
		return m, nil
	}
	return m, nil
}

func (m manageModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = manageModeBrowse
		return m, nil
	}
	if m.form.Saving {
		return m, nil
	}

	key := strings.ToLower(msg.String())
	switch key {
	case "ctrl+c", "esc":
		m.mode = manageModeBrowse
		m.form = nil
		m.statusMessage = "wizard cancelled"
		return m, nil
	case "up", "shift+tab":
		m.form.commitInput()
		if m.form.Index > 0 {
			m.form.Index--
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case "down", "tab":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 {
			m.form.Index++
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case " ", "space", "left", "right":
		if m.form.currentField().Kind == manageFieldBool {
			m.form.toggleBoolField()
			return m, nil
		}
	case "y":
		if m.form.currentField().Kind == manageFieldBool {
			m.form.setBoolField(true)
			return m, nil
		}
	case "n":
		if m.form.currentField().Kind == manageFieldBool {
			m.form.setBoolField(false)
			return m, nil
		}
	case "enter", "ctrl+s":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 && key != "ctrl+s" {
			m.form.Index++
			m.form.loadFieldIntoInput()
			return m, nil
		}
		if m.form.Kind == manageFormKindGlobal {
			global, err := m.form.toGlobalSettings()
			if err != nil {
				m.form.Error = err.Error()
				return m, nil
			}
			m.form.Error = ""
			m.form.Saving = true
			return m, saveGlobalSettingsCmd(m.configPath, global)
		}
		opts, err := m.form.toAddChannelOptions(m.configPath)
		if err != nil {
			m.form.Error = err.Error()
			return m, nil
		}
		m.form.Error = ""
		m.form.Saving = true
		return m, saveChannelCmd(opts)
	}

	if m.form.currentField().Kind == manageFieldBool {
		return m, nil
	}
	var cmd tea.Cmd
	m.form.Input, cmd = m.form.Input.Update(msg)
	m.form.Fields[m.form.Index].Value = m.form.Input.Value()
	return m, cmd
}

func (m manageModel) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "n":
		m.mode = manageModeBrowse
		m.confirmDeleteName = ""
		m.statusMessage = "delete cancelled"
		return m, nil
	case "y", "enter":
		name := strings.TrimSpace(m.confirmDeleteName)
		if name == "" {
			m.mode = manageModeBrowse
			m.statusMessage = "delete cancelled"
			return m, nil
		}
		return m, deleteChannelCmd(m.configPath, name)
	}
	return m, nil
}

func (m manageModel) View() string {
	if m.fatalErr != nil {
		return manageErrorStyle.Render("fatal: " + m.fatalErr.Error())
	}
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	switch m.mode {
	case manageModeForm:
		return m.viewForm()
	case manageModeDeleteConfirm:
		return m.viewDeleteConfirm()
	default:
		return m.viewBrowse()
	}
}

func (m manageModel) viewBrowse() string {
	header := manageTitleStyle.Render("yt-transcript-harvester manage") + "\n" +
		manageMutedStyle.Render("up/down: move | space: toggle active | enter/e: edit/run | n: new | d: delete | r: refresh | q: quit")

	if m.width < 90 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			m.renderListPanel(m.width),
			m.renderActionsPanel(m.width),
			m.renderDetailsPanel(m.width),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(m.width))
	}

	leftW := clampInt(m.width/2, 34, 56)
	rightW := m.width - leftW - 1
	left := lipgloss.JoinVertical(lipgloss.Left, m.renderListPanel(leftW), m.renderActionsPanel(leftW))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderDetailsPanel(rightW))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(m.width))
}

func (m manageModel) renderListPanel(width int) string {
	total := len(m.channels) + 1
	maxRows := clampInt(m.height-14, 4, 18)
	listCursor := m.cursor
	if listCursor >= total {
		listCursor = total - 1
	}
	start, end := listWindow(total, listCursor, maxRows)

	lines := make([]string, 0, maxRows+3)
	if len(m.channels) == 0 {
		lines = append(lines, manageMutedStyle.Render("No channels yet."))
		lines = append(lines, manageMutedStyle.Render("Select '[+] New Channel' and press Enter."))
	}
	if start > 0 {
		lines = append(lines, manageMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		line := ""
		if i == len(m.channels) {
			line = "[+] New Channel (wizard)"
		} else {
			c := m.channels[i]
			activeMark := " "
			if channels.IsActive(c) {
				activeMark = "x"
			}
			line = fmt.Sprintf("[%s] %s  %s", activeMark, c.Name, c.SourceURL)
		}
		line = truncateRunes(line, maxInt(width-6, 10))
		if i == m.cursor {
			line = manageSelStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < total {
		lines = append(lines, manageMutedStyle.Render("..."))
	}

	return managePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m manageModel) renderActionsPanel(width int) string {
	lines := make([]string, 0, len(manageActions)+2)
	lines = append(lines, "Actions")
	lines = append(lines, "")
	for i, action := range manageActions {
		row := "[>] " + action
		if m.isActionCursor() && m.selectedActionIndex() == i {
			lines = append(lines, manageSelStyle.Width(maxInt(width-4, 6)).Render(truncateRunes(row, maxInt(width-6, 10))))
			continue
		}
		lines = append(lines, truncateRunes(row, maxInt(width-6, 10)))
	}
	return managePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m manageModel) renderDetailsPanel(width int) string {
	lines := []string{}
	if m.isActionCursor() {
		lines = append(lines, "Action")
		lines = append(lines, "")
		switch m.selectedActionIndex() {
		case manageActionHarvestActive:
			lines = append(lines, "Harvest Active Channels")
			lines = append(lines, "")
			lines = append(lines, "Runs harvest for all channels with active=yes.")
			lines = append(lines, "Press Enter to start.")
		case manageActionGlobalSettings:
			lines = append(lines, "Global Settings")
			lines = append(lines, kv("sub_lang", m.global.SubLang))
			lines = append(lines, kv("pause_every", strconv.Itoa(m.global.PauseEvery)))
			lines = append(lines, kv("pause_seconds", strconv.Itoa(m.global.PauseSeconds)))
			lines = append(lines, kv("output_root", m.global.OutputRoot))
			lines = append(lines, "")
			lines = append(lines, "Press Enter to edit global defaults.")
		}
	} else if m.cursor >= len(m.channels) {
		lines = append(lines, "New Channel Wizard")
		lines = append(lines, "")
		lines = append(lines, "Press Enter or n to add a channel.")
		lines = append(lines, "The wizard guides source URL and per-channel overrides.")
	} else if len(m.channels) > 0 {
		c := m.channels[m.cursor]
		lines = append(lines, "Channel Details")
		lines = append(lines, "")
		lines = append(lines, kv("name", c.Name))
		lines = append(lines, kv("source", c.SourceURL))
		lines = append(lines, kv("active", yesNo(channels.IsActive(c))))
		lines = append(lines, kv("display_name", defaultIfEmpty(c.ChannelName, "(derived from URL)")))
		lines = append(lines, kv("sub_lang", defaultIfEmpty(c.SubLang, "(global: "+m.global.SubLang+")")))
		lines = append(lines, kv("output_dir", defaultIfEmpty(c.OutputDir, "(global root)")))
		lines = append(lines, kv("combined_file", defaultIfEmpty(c.CombinedFile, "(output dir default)")))
	} else {
		lines = append(lines, "No channels configured")
		lines = append(lines, "")
		lines = append(lines, "Press n to start the channel wizard.")
	}

	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return managePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m manageModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		msg = "Tip: space toggles channel active; go down to Actions to harvest active channels."
	}
	style := manageMutedStyle
	if strings.HasPrefix(strings.ToLower(msg), "error:") {
		style = manageErrorStyle
	} else if strings.HasPrefix(strings.ToLower(msg), "channel ") || strings.HasPrefix(strings.ToLower(msg), "updated") {
		style = manageOKStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}

func (m manageModel) viewForm() string {
	if m.form == nil {
		return ""
	}
	header := manageTitleStyle.Render(m.form.Title)
	hints := manageMutedStyle.Render("tab/shift+tab or up/down: move | space: toggle | y/n: set yes/no | enter: next/save | ctrl+s: save | esc: cancel")

	lines := make([]string, 0, len(m.form.Fields)+6)
	for i, f := range m.form.Fields {
		prefix := "  "
		if i == m.form.Index {
			prefix = "> "
		}
		display := strings.TrimSpace(f.Value)
		if f.Kind == manageFieldBool {
			v, _ := parseBool(display)
			display = yesNo(v)
		}
		if display == "" {
			display = manageMutedStyle.Render("(empty)")
		}
		lines = append(lines, wrapOrTrim(fmt.Sprintf("%s%s: %s", prefix, f.Label, display), maxInt(m.width-6, 20)))
	}

	curr := m.form.currentField()
	inputLabel := fmt.Sprintf("\n%s\n", curr.Label)
	inputHelp := ""
	if strings.TrimSpace(curr.Help) != "" {
		inputHelp = manageMutedStyle.Render(curr.Help) + "\n"
	}
	status := ""
	if m.form.Saving {
		status = manageMutedStyle.Render("\nSaving...")
	}
	if strings.TrimSpace(m.form.Error) != "" {
		status = "\n" + manageErrorStyle.Render(m.form.Error)
	}

	panel := managePanelStyle.Width(maxInt(m.width, 40)).Render(strings.Join(lines, "\n") + inputLabel + inputHelp + m.form.Input.View() + status)
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, panel)
}

func (m manageModel) viewDeleteConfirm() string {
	text := fmt.Sprintf(
		"Delete channel '%s'?\n\nThis removes it from config only.\nHarvested transcripts remain on disk.\n\nPress y or Enter to confirm, n or Esc to cancel.",
		m.confirmDeleteName,
	)
	boxW := clampInt(m.width-8, 36, 80)
	boxH := clampInt(m.height-6, 9, 14)
	panel := managePanelStyle.Width(boxW).Height(boxH).Render(text)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m manageModel) totalBrowseRows() int {
	return (len(m.channels) + 1) + len(manageActions)
}

func (m manageModel) isActionCursor() bool {
	return m.cursor >= len(m.channels)+1
}

func (m manageModel) selectedActionIndex() int {
	idx := m.cursor - (len(m.channels) + 1)
	if idx < 0 {
		return 0
	}
	if idx >= len(manageActions) {
		return len(manageActions) - 1
	}
	return idx
}

func loadChannelsCmd(configPath string) tea.Cmd {
	return func() tea.Msg {
		res, err := channels.ListChannels(configPath)
		if err != nil {
			return manageLoadedMsg{err: err}
		}
		global, err := channels.ReadGlobalSettings(configPath)
		if err != nil {
			return manageLoadedMsg{err: err}
		}
		return manageLoadedMsg{channels: res.Channels, global: global}
	}
}

func saveChannelCmd(opts channels.AddChannelOptions) tea.Cmd {
	return func() tea.Msg {
		res, err := channels.AddChannel(opts)
		if err != nil {
			return manageSaveMsg{err: err}
		}
		if res.Created {
			return manageSaveMsg{message: "channel added: " + res.Channel.Name}
		}
		return manageSaveMsg{message: "channel updated: " + res.Channel.Name}
	}
}

func deleteChannelCmd(configPath, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := channels.RemoveChannel(channels.RemoveChannelOptions{ConfigPath: configPath, Name: name})
		if err != nil {
			return manageDeleteMsg{err: err}
		}
		return manageDeleteMsg{message: "channel removed: " + name}
	}
}

func toggleChannelActiveCmd(configPath string, c channels.Channel) tea.Cmd {
	return func() tea.Msg {
		nextActive := !channels.IsActive(c)
		res, err := channels.AddChannel(channels.AddChannelOptions{
			ConfigPath:          configPath,
			Name:                c.Name,
			SourceURL:           c.SourceURL,
			ChannelName:         c.ChannelName,
			OutputDir:           c.OutputDir,
			CombinedFile:        c.CombinedFile,
			SubLang:             c.SubLang,
			Active:              boolPtr(nextActive),
			ReplaceIfNameExists: true,
		})
		if err != nil {
			return manageSaveMsg{err: err}
		}
		return manageSaveMsg{message: fmt.Sprintf("channel %s active: %s", res.Channel.Name, yesNo(channels.IsActive(res.Channel)))}
	}
}

func newManageChannelForm(existing *channels.Channel, width int) *manageForm {
	f := &manageForm{Kind: manageFormKindChannel}
	if existing == nil {
		f.Title = "New Channel Wizard"
		f.Fields = []manageFormField{
			{Key: "source", Label: "Channel URL", Help: "e.g. https://www.youtube.com/@channel/videos", Kind: manageFieldString, Required: true},
			{Key: "name", Label: "Channel Name", Help: "Optional; leave empty to derive from @handle", Kind: manageFieldString},
			{Key: "active", Label: "Active", Help: "Included in 'Harvest Active Channels'", Kind: manageFieldBool, Value: "y"},
			{Key: "channel_name", Label: "Display Name", Help: "Used in transcript file headers", Kind: manageFieldString},
			{Key: "sub_lang", Label: "Subtitle Language", Help: "Optional override; empty uses global default", Kind: manageFieldString},
			{Key: "output_dir", Label: "Output Dir", Help: "Optional override; empty uses <output_root>/<name>", Kind: manageFieldString},
			{Key: "combined_file", Label: "Combined File", Help: "Optional override for the archive path", Kind: manageFieldString},
		}
	} else {
		f.Title = "Edit Channel: " + existing.Name
		f.IsEdit = true
		f.ChannelName = existing.Name
		f.Fields = []manageFormField{
			{Key: "source", Label: "Channel URL", Help: "e.g. https://www.youtube.com/@channel/videos", Kind: manageFieldString, Required: true, Value: existing.SourceURL},
			{Key: "active", Label: "Active", Help: "Included in 'Harvest Active Channels'", Kind: manageFieldBool, Value: boolToYN(channels.IsActive(*existing))},
			{Key: "channel_name", Label: "Display Name", Help: "Used in transcript file headers", Kind: manageFieldString, Value: existing.ChannelName},
			{Key: "sub_lang", Label: "Subtitle Language", Help: "Optional override; empty uses global default", Kind: manageFieldString, Value: existing.SubLang},
			{Key: "output_dir", Label: "Output Dir", Help: "Optional override; empty uses <output_root>/<name>", Kind: manageFieldString, Value: existing.OutputDir},
			{Key: "combined_file", Label: "Combined File", Help: "Optional override for the archive path", Kind: manageFieldString, Value: existing.CombinedFile},
		}
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 1024
	input.Width = clampInt(width-8, 20, 120)
	f.Input = input
	f.loadFieldIntoInput()
	f.Input.Focus()
	return f
}

func newManageGlobalForm(global channels.GlobalSettings, width int) *manageForm {
	f := &manageForm{
		Kind:  manageFormKindGlobal,
		Title: "Global Settings",
		Fields: []manageFormField{
			{Key: "sub_lang", Label: "Subtitle Language", Help: "Default language preference, e.g. en", Kind: manageFieldString, Value: global.SubLang},
			{Key: "pause_every", Label: "Pause Every", Help: "Pause after this many videos", Kind: manageFieldInt, Value: strconv.Itoa(global.PauseEvery)},
			{Key: "pause_seconds", Label: "Pause Seconds", Help: "Pause duration between batches", Kind: manageFieldInt, Value: strconv.Itoa(global.PauseSeconds)},
			{Key: "output_root", Label: "Output Root", Help: "Root directory for channel output dirs", Kind: manageFieldString, Value: global.OutputRoot},
		},
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 1024
	input.Width = clampInt(width-8, 20, 120)
	f.Input = input
	f.loadFieldIntoInput()
	f.Input.Focus()
	return f
}

func (f *manageForm) currentField() manageFormField {
	if len(f.Fields) == 0 {
		return manageFormField{}
	}
	if f.Index < 0 {
		f.Index = 0
	}
	if f.Index >= len(f.Fields) {
		f.Index = len(f.Fields) - 1
	}
	return f.Fields[f.Index]
}

func (f *manageForm) commitInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	f.Fields[f.Index].Value = strings.TrimSpace(f.Input.Value())
}

func (f *manageForm) loadFieldIntoInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	f.Input.SetValue(f.Fields[f.Index].Value)
	f.Input.CursorEnd()
}

func (f *manageForm) toggleBoolField() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != manageFieldBool {
		return
	}
	v, ok := parseBool(curr.Value)
	if !ok {
		v = false
	}
	curr.Value = boolToYN(!v)
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *manageForm) setBoolField(v bool) {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != manageFieldBool {
		return
	}
	curr.Value = boolToYN(v)
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *manageForm) toAddChannelOptions(configPath string) (channels.AddChannelOptions, error) {
	if f == nil {
		return channels.AddChannelOptions{}, errors.New("internal form error")
	}
	vals, err := f.validatedValues()
	if err != nil {
		return channels.AddChannelOptions{}, err
	}

	active, _ := parseBool(defaultIfEmpty(vals["active"], "y"))
	name := strings.TrimSpace(vals["name"])
	replace := false
	if f.IsEdit {
		name = f.ChannelName
		replace = true
	}

	return channels.AddChannelOptions{
		ConfigPath:          configPath,
		Name:                name,
		SourceURL:           strings.TrimSpace(vals["source"]),
		ChannelName:         strings.TrimSpace(vals["channel_name"]),
		OutputDir:           strings.TrimSpace(vals["output_dir"]),
		CombinedFile:        strings.TrimSpace(vals["combined_file"]),
		SubLang:             strings.TrimSpace(vals["sub_lang"]),
		Active:              boolPtr(active),
		ReplaceIfNameExists: replace,
	}, nil
}

func (f *manageForm) toGlobalSettings() (channels.GlobalSettings, error) {
	if f == nil {
		return channels.GlobalSettings{}, errors.New("internal form error")
	}
	vals, err := f.validatedValues()
	if err != nil {
		return channels.GlobalSettings{}, err
	}

	pauseEvery, _ := strconv.Atoi(defaultIfEmpty(vals["pause_every"], "0"))
	if pauseEvery <= 0 {
		return channels.GlobalSettings{}, errors.New("pause every must be >= 1")
	}
	pauseSeconds, _ := strconv.Atoi(defaultIfEmpty(vals["pause_seconds"], "0"))

	return channels.GlobalSettings{
		SubLang:      strings.TrimSpace(vals["sub_lang"]),
		PauseEvery:   pauseEvery,
		PauseSeconds: pauseSeconds,
		OutputRoot:   strings.TrimSpace(vals["output_root"]),
	}, nil
}

func (f *manageForm) validatedValues() (map[string]string, error) {
	vals := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		v := strings.TrimSpace(field.Value)
		if field.Required && v == "" {
			return nil, fmt.Errorf("%s is required", strings.ToLower(field.Label))
		}
		switch field.Kind {
		case manageFieldInt:
			if v == "" {
				v = "0"
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%s must be an integer >= 0", strings.ToLower(field.Label))
			}
		case manageFieldBool:
			if _, ok := parseBool(v); !ok {
				return nil, fmt.Errorf("%s must be y or n", strings.ToLower(field.Label))
			}
		}
		vals[field.Key] = v
	}
	return vals, nil
}

func saveGlobalSettingsCmd(configPath string, global channels.GlobalSettings) tea.Cmd {
	return func() tea.Msg {
		res, err := channels.UpdateGlobalSettings(channels.UpdateGlobalSettingsOptions{
			ConfigPath: configPath,
			Global:     global,
		})
		if err != nil {
			return manageSaveMsg{err: err}
		}
		return manageSaveMsg{
			message: fmt.Sprintf(
				"updated global settings: lang=%s pause_every=%d pause_seconds=%d output_root=%s",
				res.Global.SubLang,
				res.Global.PauseEvery,
				res.Global.PauseSeconds,
				res.Global.OutputRoot,
			),
		}
	}
}
