package datatypes

import "testing"

func TestParseConnectionStatus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ConnectionStatus
	}{
		{"none", "none", ConnectionNone},
		{"pending", "pending", ConnectionPending},
		{"connected", "connected", ConnectionConnected},
		{"stored state name", "ACCEPTED", ConnectionConnected},
		{"uppercase pending", "PENDING", ConnectionPending},
		{"whitespace", "  pending ", ConnectionPending},
		{"empty degrades to none", "", ConnectionNone},
		{"garbage degrades to none", "???", ConnectionNone},
		{"rejected maps to none", "rejected", ConnectionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseConnectionStatus(tt.in); got != tt.want {
				t.Errorf("ParseConnectionStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConnectionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ConnectionRequest
		wantErr bool
	}{
		{"valid", ConnectionRequest{RecipientID: "u2", Message: "hello"}, false},
		{"blank message", ConnectionRequest{RecipientID: "u2", Message: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
