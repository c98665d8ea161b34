package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: `4`, want: 4},
		{input: `"6"`, want: 6},
		{input: `" 2 "`, want: 2},
		{input: `3.0`, want: 3},
		{input: `null`, want: 0},
		{input: `""`, want: 0},
		{input: `"many"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f FlexInt
			err := json.Unmarshal([]byte(tt.input), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && f.Int() != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, f.Int(), tt.want)
			}
		})
	}
}

func TestBookingRequest_Aliases(t *testing.T) {
	var req BookingRequest
	body := `{"firstName":"Ada","lastName":"King","email":"ADA@EXAMPLE.COM","partysize":"5"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Guests != nil {
		t.Error("guests should be absent")
	}
	if req.PartySize.Int() != 5 {
		t.Errorf("partysize = %d, want 5", req.PartySize.Int())
	}
}

func TestBooking_Response(t *testing.T) {
	b := &Booking{
		ID:     "abc",
		Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:   "19:30:00",
		Guests: 2,
	}
	resp := b.Response()
	if resp.Date != "2025-03-14" {
		t.Errorf("Date = %q, want 2025-03-14", resp.Date)
	}
	if resp.CustomerPhone != nil {
		t.Error("empty phone should render as null")
	}
	if b.HHMM() != "19:30" {
		t.Errorf("HHMM() = %q, want 19:30", b.HHMM())
	}
}

func TestCustomer_ResponseLastVisit(t *testing.T) {
	c := &Customer{Name: "Jane"}
	if got := c.Response().LastVisit; got != NeverVisited {
		t.Errorf("LastVisit = %q, want %q", got, NeverVisited)
	}

	visit := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	c.LastVisit = &visit
	if got := c.Response().LastVisit; got != "2024-01-15" {
		t.Errorf("LastVisit = %q, want 2024-01-15", got)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2025-03-01", " 2025-03-01 ", "2025-03-01T18:45:00Z", "2025-03-01T23:30:00+01:00"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseDate("March 1st"); err == nil {
		t.Error("expected error for unparseable date")
	}
}
