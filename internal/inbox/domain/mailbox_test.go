package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOutbound(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		account string
		labels  []string
		want    bool
	}{
		{"display name form", `"Ada Lovelace" <ada@example.com>`, "ada@example.com", nil, true},
		{"case insensitive", "ADA@Example.COM", "ada@example.com", nil, true},
		{"other sender", "Bob <bob@example.com>", "ada@example.com", []string{"SENT"}, false},
		{"sent label ignored when account known", "Bob <bob@example.com>", "ada@example.com", []string{LabelSent}, false},
		{"empty from", "", "ada@example.com", nil, false},
		{"unknown account uses SENT label", "Bob <bob@example.com>", "", []string{"INBOX", LabelSent}, true},
		{"unknown account without SENT", "ada@example.com", "", []string{"INBOX"}, false},
		{"unparseable but bracketed", "Ada (work) <ada@example.com", "ada@example.com", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutbound(tt.from, tt.account, tt.labels))
		})
	}
}
