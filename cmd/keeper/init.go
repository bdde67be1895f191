package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/account"
	"github.com/sznuper/keeper/internal/config"
	"github.com/sznuper/keeper/internal/dashboard"
)

var errInitAborted = errors.New("init aborted")

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a keeper configuration interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = config.DefaultConfigPaths()[0]
		}

		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return errors.New("init needs an interactive terminal; write the config by hand or set KEEPER_CREDENTIALS")
		}
		if _, err := os.Stat(out); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		}

		final, err := tea.NewProgram(newInitModel()).Run()
		if err != nil {
			return err
		}
		m := final.(initModel)
		if m.aborted {
			return errInitAborted
		}

		data, err := m.render()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
			return err
		}
		// The file holds a password.
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return err
		}
		fmt.Println(styled(okStyle, "✓ Wrote "+out))
		fmt.Println("  Check it with: keeper validate --config " + out)
		return nil
	},
}

func init() {
	initCmd.Flags().StringP("output", "o", "", "where to write the config (default ~/.config/keeper/config.yaml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

type initField struct {
	label    string
	hint     string
	secret   bool
	optional bool
}

var initFields = []initField{
	{label: "Email", hint: "you@example.com"},
	{label: "Password", secret: true},
	{label: "Server ID", hint: "from https://www.pella.app/server/<id>"},
	{label: "Telegram bot token", hint: "optional", optional: true, secret: true},
	{label: "Telegram chat ID", hint: "optional", optional: true},
}

const (
	fieldIdentity = iota
	fieldSecret
	fieldServerID
	fieldBotToken
	fieldChatID
)

type initModel struct {
	inputs  []textinput.Model
	focus   int
	err     string
	aborted bool
}

func newInitModel() initModel {
	m := initModel{inputs: make([]textinput.Model, len(initFields))}
	for i, f := range initFields {
		in := textinput.New()
		in.Placeholder = f.hint
		in.Prompt = "> "
		in.CharLimit = 256
		if f.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

func (m initModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if err := m.check(m.focus); err != "" {
				m.err = err
				return m, nil
			}
			m.err = ""
			if m.focus == len(m.inputs)-1 {
				if err := m.checkAll(); err != "" {
					m.err = err
					return m, nil
				}
				return m, tea.Quit
			}
			return m, m.move(1)
		case tea.KeyTab, tea.KeyDown:
			return m, m.move(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.move(-1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *initModel) move(delta int) tea.Cmd {
	next := (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = next
	return m.inputs[m.focus].Focus()
}

func (m initModel) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m initModel) check(i int) string {
	if !initFields[i].optional && m.value(i) == "" {
		return initFields[i].label + " is required"
	}
	return ""
}

func (m initModel) checkAll() string {
	for i := range m.inputs {
		if err := m.check(i); err != "" {
			return err
		}
	}
	if (m.value(fieldBotToken) == "") != (m.value(fieldChatID) == "") {
		return "Telegram bot token and chat ID go together"
	}
	cfg := m.config()
	if err := cfg.Validate(); err != nil {
		return err.Error()
	}
	return ""
}

func (m initModel) View() string {
	var b strings.Builder
	b.WriteString(styled(titleStyle, "keeper setup") + "\n\n")
	for i, f := range initFields {
		label := f.label
		if i == m.focus {
			label = styled(okStyle, label)
		}
		b.WriteString(label + "\n" + m.inputs[i].View() + "\n\n")
	}
	if m.err != "" {
		b.WriteString(styled(errStyle, m.err) + "\n\n")
	}
	b.WriteString(styled(faintStyle, "enter: next · tab/shift+tab: move · esc: quit") + "\n")
	return b.String()
}

func (m initModel) config() *config.Config {
	cfg := &config.Config{
		Options: config.Options{
			BaseURL:  dashboard.DefaultBaseURL,
			Timezone: config.DefaultTimezone,
		},
		Schedule: config.DefaultSchedule,
		Accounts: []account.Account{{
			Identity: m.value(fieldIdentity),
			Secret:   m.value(fieldSecret),
			ServerID: m.value(fieldServerID),
			BotToken: m.value(fieldBotToken),
			ChatID:   m.value(fieldChatID),
		}},
	}
	return cfg
}

// render encodes the config for writing. The file is passed through envsubst
// on load, so typed values have '$' escaped.
func (m initModel) render() ([]byte, error) {
	cfg := m.config()
	for i := range cfg.Accounts {
		a := &cfg.Accounts[i]
		for _, f := range []*string{&a.Identity, &a.Secret, &a.ServerID, &a.BotToken, &a.ChatID} {
			*f = escapeEnv(*f)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return append([]byte("# Generated by keeper init.\n"), data...), nil
}

func escapeEnv(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
