package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ZABarton/idle-artifice-sub000/internal/handlers"
)

const pollInterval = 500 * time.Millisecond

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	modal        *handlers.ModalState
	history      *handlers.HistoryResponse
	mainViewport viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error
	status       string

	// History overlay state
	showHistory bool

	// Quit confirmation state
	showQuitModal bool
}

type modalStateMsg struct {
	state *handlers.ModalState
	err   error
}

type historyMsg struct {
	history *handlers.HistoryResponse
	err     error
}

type actionDoneMsg struct {
	err error
}

type pollTickMsg struct{}

var (
	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	mainVp := viewport.New(50, 20)
	mainVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		mainViewport: mainVp,
		metaViewport: metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.fetchModalState(), pollTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd, mvCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.mainViewport, vpCmd = m.mainViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - mainWidth - 6

		m.mainViewport.Width = mainWidth - 2
		m.mainViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeMainContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		return m.handleKey(msg)

	case modalStateMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.modal = msg.state
		}
		m.writeMainContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case historyMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.history = msg.history
		}
		m.writeMainContent()

	case actionDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.writeMainContent()
		}
		return m, m.fetchModalState()

	case pollTickMsg:
		return m, tea.Batch(m.fetchModalState(), pollTick())
	}

	m.mainViewport, vpCmd = m.mainViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.showHistory {
			m.showHistory = false
			m.writeMainContent()
			return m, nil
		}
		m.showQuitModal = true
		return m, nil

	case tea.KeyEnter, tea.KeySpace:
		if m.modal != nil && m.modal.Active && m.modal.Type != "tree" {
			m.status = ""
			return m, m.closeCurrent()
		}
		return m, nil
	}

	key := msg.String()

	// Digit keys pick a dialog tree response.
	if m.modal != nil && m.modal.Tree != nil && len(key) == 1 && key >= "1" && key <= "9" {
		index := int(key[0] - '1')
		if index < len(m.modal.Tree.Responses) {
			m.status = ""
			return m, m.pickResponse(index)
		}
		return m, nil
	}

	switch key {
	case "h":
		if m.showHistory {
			m.showHistory = false
			m.writeMainContent()
			return m, nil
		}
		m.showHistory = true
		return m, m.fetchHistory()

	case "c":
		if text := m.transcriptText(); text != "" {
			if err := clipboard.WriteAll(text); err != nil {
				m.status = "Clipboard copy failed: " + err.Error()
			} else {
				m.status = "Transcript copied to clipboard"
			}
			m.writeMainContent()
		}

	case "q":
		m.showQuitModal = true
	}

	return m, nil
}

// writeMainContent rebuilds the narrative panel for the current width.
func (m *ConsoleUI) writeMainContent() {
	width := m.mainViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("IDLE ARTIFICE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	switch {
	case m.showHistory:
		content.WriteString(m.renderHistory(width))
	case m.modal == nil || !m.modal.Active:
		content.WriteString(promptStyle.Render("Nothing on screen. Waiting for the story to catch up with you...") + "\n")
	case m.modal.Type == "tree":
		content.WriteString(m.renderTree(width))
	case m.modal.Type == "tutorial":
		content.WriteString(m.renderTutorial(width))
	case m.modal.Type == "dialog":
		content.WriteString(m.renderDialog(width))
	}

	if m.status != "" {
		content.WriteString("\n" + promptStyle.Render(m.status) + "\n")
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	m.mainViewport.SetContent(content.String())
}

func (m *ConsoleUI) renderTutorial(width int) string {
	var b strings.Builder
	b.WriteString(speakerStyle.Render(m.modal.Tutorial.Title) + "\n\n")
	b.WriteString(wordwrap.String(m.modal.Tutorial.Content, width) + "\n\n")
	b.WriteString(promptStyle.Render("Press Enter to dismiss") + "\n")
	return b.String()
}

func (m *ConsoleUI) renderDialog(width int) string {
	var b strings.Builder
	name := titleCaser.String(m.modal.Dialog.CharacterName)
	b.WriteString(speakerStyle.Render(name+":") + "\n\n")
	b.WriteString(npcStyle.Render(wordwrap.String(m.modal.Dialog.Message, width)) + "\n\n")
	b.WriteString(promptStyle.Render("Press Enter to dismiss") + "\n")
	return b.String()
}

func (m *ConsoleUI) renderTree(width int) string {
	tree := m.modal.Tree
	var b strings.Builder
	name := titleCaser.String(tree.CharacterName)
	b.WriteString(speakerStyle.Render(name+":") + "\n\n")
	b.WriteString(npcStyle.Render(wordwrap.String(tree.Message, width)) + "\n\n")

	for i, resp := range tree.Responses {
		b.WriteString(choiceStyle.Render(fmt.Sprintf("  %d. %s", i+1, resp)) + "\n")
	}
	b.WriteString("\n" + promptStyle.Render("Press a number to answer") + "\n")
	return b.String()
}

func (m *ConsoleUI) renderHistory(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversation History") + "\n\n")

	if m.history == nil || len(m.history.History) == 0 {
		b.WriteString(promptStyle.Render("No conversations yet.") + "\n")
	} else {
		for _, rec := range m.history.History {
			b.WriteString(speakerStyle.Render(titleCaser.String(rec.CharacterName)) +
				promptStyle.Render("  "+rec.StartedAt.Format("Jan 2 15:04")) + "\n")
			for _, entry := range rec.Entries {
				line := titleCaser.String(entry.SpeakerName) + ": " + entry.Message
				style := npcStyle
				if entry.Speaker == "player" {
					style = playerStyle
				}
				b.WriteString(style.Render(wordwrap.String(line, width)) + "\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(promptStyle.Render("Press H or Esc to go back, C to copy") + "\n")
	return b.String()
}

// transcriptText builds a plain-text transcript for clipboard export.
func (m *ConsoleUI) transcriptText() string {
	if m.history == nil || len(m.history.History) == 0 {
		return ""
	}

	var b strings.Builder
	for _, rec := range m.history.History {
		b.WriteString(titleCaser.String(rec.CharacterName) + " (" + rec.StartedAt.Format(time.RFC822) + ")\n")
		for _, entry := range rec.Entries {
			b.WriteString(titleCaser.String(entry.SpeakerName) + ": " + entry.Message + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("STATUS") + "\n\n")

	if m.modal != nil {
		content.WriteString("Queue:\n")
		content.WriteString(fmt.Sprintf("%d pending\n\n", m.modal.QueueDepth))

		if m.modal.Active {
			content.WriteString("On screen:\n")
			content.WriteString(m.modal.Type + "\n\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Dismiss\n")
	content.WriteString("• 1-9: Answer\n")
	content.WriteString("• H: History\n")
	content.WriteString("• C: Copy\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) fetchModalState() tea.Cmd {
	return func() tea.Msg {
		state, err := getModalState(m.client, m.config.APIBaseURL)
		return modalStateMsg{state, err}
	}
}

func (m ConsoleUI) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		history, err := getHistory(m.client, m.config.APIBaseURL)
		return historyMsg{history, err}
	}
}

func (m ConsoleUI) closeCurrent() tea.Cmd {
	return func() tea.Msg {
		_, err := closeModal(m.client, m.config.APIBaseURL)
		return actionDoneMsg{err}
	}
}

func (m ConsoleUI) pickResponse(index int) tea.Cmd {
	return func() tea.Msg {
		err := selectResponse(m.client, m.config.APIBaseURL, index)
		return actionDoneMsg{err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("The story will be waiting where you left it.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to stay"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	mainWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - mainWidth - 6

	mainPanel := mainPanelStyle.Width(mainWidth).Height(m.height - 3).Render(
		m.mainViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, metaPanel)
}

// pollTick drives the modal state refresh loop.
func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}
