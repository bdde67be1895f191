package account

import (
	"fmt"
	"strings"
)

// Account is one credential record: who to log in as, which server to keep
// alive, and where to report.
type Account struct {
	Identity string `yaml:"identity" validate:"required,email"`
	Secret   string `yaml:"secret" validate:"required"`
	ServerID string `yaml:"server_id" validate:"required,excludesall=/?#"`
	BotToken string `yaml:"bot_token,omitempty" validate:"required_with=ChatID"`
	ChatID   string `yaml:"chat_id,omitempty" validate:"required_with=BotToken"`
}

// HasTelegram reports whether the account carries its own Telegram target.
func (a Account) HasTelegram() bool {
	return a.BotToken != "" && a.ChatID != ""
}

// Masked returns the identity with the local part redacted.
func (a Account) Masked() string {
	return Mask(a.Identity)
}

// Parse parses one comma separated credential line:
//
//	identity,secret,server_id[,bot_token[,chat_id]]
//
// Fields are trimmed. Fewer than three fields is an error.
func Parse(line string) (Account, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 {
		return Account{}, fmt.Errorf("credential record has %d fields, need identity,secret,server_id", len(parts))
	}

	a := Account{
		Identity: parts[0],
		Secret:   parts[1],
		ServerID: parts[2],
	}
	if len(parts) > 3 {
		a.BotToken = parts[3]
	}
	if len(parts) > 4 {
		a.ChatID = parts[4]
	}
	return a, nil
}

// ParseBatch parses one credential record per line. Blank lines and lines
// starting with '#' are ignored. Errors name the offending line number but
// never echo the line, which carries a secret.
func ParseBatch(text string) ([]Account, error) {
	var accounts []Account
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		a, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
