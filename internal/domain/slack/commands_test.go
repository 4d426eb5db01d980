package slack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantType CommandType
		wantArgs []string
		wantErr  bool
	}{
		{name: "Should default to help on empty text", text: "   ", wantType: CmdHelp},
		{name: "Should parse help", text: "help", wantType: CmdHelp},
		{name: "Should parse list", text: "list", wantType: CmdList},
		{name: "Should parse ls alias", text: "ls", wantType: CmdList},
		{name: "Should parse status", text: "status", wantType: CmdStatus},
		{name: "Should parse remind", text: "remind", wantType: CmdRemind},
		{name: "Should be case insensitive", text: "STATUS", wantType: CmdStatus},
		{
			name:     "Should parse add with several mentions",
			text:     "add <@U111|alice> <@U222|bob>",
			wantType: CmdAdd,
			wantArgs: []string{"<@U111|alice>", "<@U222|bob>"},
		},
		{
			name:     "Should parse rm alias",
			text:     "rm <@U111>",
			wantType: CmdRemove,
			wantArgs: []string{"<@U111>"},
		},
		{
			name:     "Should keep only the limit for history",
			text:     "history 5 extra",
			wantType: CmdHistory,
			wantArgs: []string{"5"},
		},
		{name: "Should reject unknown commands", text: "dance", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantArgs, got.Args)
		})
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{name: "Should parse an escaped mention with a name", arg: "<@U123ABC|alice>", want: "U123ABC"},
		{name: "Should parse an escaped mention without a name", arg: "<@W987>", want: "W987"},
		{name: "Should accept a bare user ID", arg: "U123ABC", want: "U123ABC"},
		{name: "Should reject a plain name", arg: "@alice", wantErr: true},
		{name: "Should reject a channel mention", arg: "<#C123|general>", wantErr: true},
		{name: "Should reject empty input", arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
