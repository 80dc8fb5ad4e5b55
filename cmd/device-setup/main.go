package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DEFAULT_SERVER_URL = "http://localhost:5000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("45")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringName step = iota
	stepEnteringDescription
	stepEnteringRegion
	stepEnteringTech
	stepEnteringOracleIndex
	stepEnteringAccount
	stepRegistering
	stepComplete
)

var prompts = map[step]string{
	stepEnteringName:        "Device name (unique):",
	stepEnteringDescription: "Description:",
	stepEnteringRegion:      "Region:",
	stepEnteringTech:        "Technology (AWG, Solar, ...):",
	stepEnteringOracleIndex: "Oracle ledger index:",
	stepEnteringAccount:     "Owning ledger account (r...):",
}

type model struct {
	step         step
	serverURL    string
	name         string
	description  string
	region       string
	tech         string
	oracleIndex  string
	account      string
	currentInput string
	message      string
	quitting     bool
}

type registerSuccessMsg struct{}
type errMsg struct {
	err   error
	field string
}

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	serverURL := os.Getenv("NEXUS_SERVER_URL")
	if serverURL == "" {
		serverURL = DEFAULT_SERVER_URL
	}
	return model{
		step:      stepEnteringName,
		serverURL: serverURL,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func registerDevice(m model) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 15 * time.Second}

		payload := map[string]string{
			"name":        m.name,
			"description": m.description,
			"region":      m.region,
			"tech":        m.tech,
			"oracleIndex": m.oracleIndex,
			"account":     m.account,
		}

		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", m.serverURL+"/api/device", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{err: fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			return registerSuccessMsg{}
		}

		var result map[string]interface{}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &result); err != nil {
			return errMsg{err: fmt.Errorf("server returned %d", resp.StatusCode)}
		}

		errText, _ := result["error"].(string)
		if errText == "" {
			errText = fmt.Sprintf("server returned %d", resp.StatusCode)
		}
		field, _ := result["field"].(string)
		return errMsg{err: fmt.Errorf("%s", errText), field: field}
	}
}

func (m *model) acceptInput() {
	switch m.step {
	case stepEnteringName:
		m.name = m.currentInput
	case stepEnteringDescription:
		m.description = m.currentInput
	case stepEnteringRegion:
		m.region = m.currentInput
	case stepEnteringTech:
		m.tech = m.currentInput
	case stepEnteringOracleIndex:
		m.oracleIndex = m.currentInput
	case stepEnteringAccount:
		m.account = m.currentInput
	}
	m.currentInput = ""
}

// stepForField rewinds to the input whose value the server rejected.
func stepForField(field string) step {
	if field == "oracleIndex" {
		return stepEnteringOracleIndex
	}
	return stepEnteringName
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step < stepRegistering {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringName, stepEnteringDescription, stepEnteringRegion,
				stepEnteringTech, stepEnteringOracleIndex:
				if m.currentInput != "" {
					m.acceptInput()
					m.step++
				}

			case stepEnteringAccount:
				if m.currentInput != "" {
					m.acceptInput()
					m.step = stepRegistering
					m.message = "Registering device..."
					return m, registerDevice(m)
				}

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case registerSuccessMsg:
		m.step = stepComplete
		m.message = successStyle.Render(fmt.Sprintf("✓ Device %q registered!", m.name))

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = stepForField(msg.field)
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🛰  Nexus Device Registration\n\n"))

	if prompt, ok := prompts[m.step]; ok {
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render(prompt + "\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter")
		s.WriteString(hintStyle.Render("  (ctrl+c to quit)\n"))
		return s.String()
	}

	switch m.step {
	case stepRegistering:
		s.WriteString(m.message + "\n")

	case stepComplete:
		s.WriteString(m.message + "\n")
		s.WriteString(fmt.Sprintf("\nOracle index: %s\nAccount:      %s\n", m.oracleIndex, m.account))
		s.WriteString("\nPress Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
