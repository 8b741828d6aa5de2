package main

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    command
		wantErr bool
	}{
		{args: []string{"up"}, want: command{name: "up"}},
		{args: []string{"down"}, want: command{name: "down"}},
		{args: []string{"version"}, want: command{name: "version"}},
		{args: []string{"steps", "-2"}, want: command{name: "steps", n: -2}},
		{args: []string{"force", "1"}, want: command{name: "force", n: 1}},
		{args: nil, wantErr: true},
		{args: []string{"up", "extra"}, wantErr: true},
		{args: []string{"steps"}, wantErr: true},
		{args: []string{"steps", "0"}, wantErr: true},
		{args: []string{"force", "latest"}, wantErr: true},
		{args: []string{"drop"}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseCommand(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCommand(%v) = %+v, want error", tt.args, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCommand(%v) error = %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCommand(%v) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestParseCommandUsage(t *testing.T) {
	if _, err := parseCommand([]string{"sideways"}); !errors.Is(err, errUsage) {
		t.Errorf("err = %v, want usage", err)
	}
}
