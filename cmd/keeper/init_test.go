package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sznuper/keeper/internal/config"
)

func typeInto(m initModel, s string) initModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(initModel)
	}
	return m
}

func press(m initModel, k tea.KeyType) (initModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(initModel), cmd
}

func TestInitModel_RequiredField(t *testing.T) {
	m := newInitModel()
	m, _ = press(m, tea.KeyEnter)
	if m.focus != 0 {
		t.Errorf("focus = %d, want 0", m.focus)
	}
	if !strings.Contains(m.err, "Email") {
		t.Errorf("err = %q", m.err)
	}
}

func TestInitModel_CompleteFlow(t *testing.T) {
	m := newInitModel()
	m = typeInto(m, "admin@example.com")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "s3cret")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "3f2a9c1e")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEnter) // no bot token
	if m.focus != fieldChatID {
		t.Fatalf("focus = %d, want %d", m.focus, fieldChatID)
	}
	m, cmd := press(m, tea.KeyEnter)
	if m.err != "" {
		t.Fatalf("unexpected error: %s", m.err)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	data, err := m.render()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, data)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].ServerID != "3f2a9c1e" || cfg.Accounts[0].Secret != "s3cret" {
		t.Errorf("accounts = %+v", cfg.Accounts)
	}
	if strings.Contains(string(data), "bot_token") {
		t.Errorf("empty optional fields written:\n%s", data)
	}
}

func TestInitModel_TelegramPair(t *testing.T) {
	m := newInitModel()
	m = typeInto(m, "admin@example.com")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "s3cret")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "3f2a9c1e")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "123:abc")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEnter) // chat id left empty

	if !strings.Contains(m.err, "go together") {
		t.Errorf("err = %q", m.err)
	}
}

func TestInitModel_Abort(t *testing.T) {
	m := newInitModel()
	m, _ = press(m, tea.KeyEsc)
	if !m.aborted {
		t.Error("expected aborted")
	}
}

func TestInitModel_SecretWithDollarRoundTrips(t *testing.T) {
	const secret = "pa$word1${HOME}$$"
	m := newInitModel()
	m = typeInto(m, "admin@example.com")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, secret)
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "3f2a9c1e")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "123:a$b")
	m, _ = press(m, tea.KeyEnter)
	m = typeInto(m, "-100")

	data, err := m.render()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, data)
	}
	got := cfg.Accounts[0]
	if got.Secret != secret {
		t.Errorf("secret = %q, want %q", got.Secret, secret)
	}
	if got.BotToken != "123:a$b" {
		t.Errorf("bot token = %q", got.BotToken)
	}
}
