package scheduler

import "testing"

func TestNewInvalidTimezone(t *testing.T) {
	_, err := New("Invalid/Zone")
	if err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestDaily(t *testing.T) {
	s, err := New("Asia/Jakarta")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Stop()

	if err := s.Daily("21:00", func() {}); err != nil {
		t.Fatalf("Daily failed: %v", err)
	}
	s.Start()

	if len(s.cron.Entries()) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(s.cron.Entries()))
	}
}

func TestDailyInvalidTime(t *testing.T) {
	s, _ := New("UTC")
	defer s.Stop()

	tests := []string{
		"invalid",
		"25:00",
		"12:60",
		"9:00",
		"12:0",
	}

	for _, tt := range tests {
		if err := s.Daily(tt, func() {}); err == nil {
			t.Errorf("expected error for invalid time %q", tt)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"12:30", 12, 30, false},
		{"25:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"invalid", 0, 0, true},
	}

	for _, tt := range tests {
		hour, minute, err := parseTime(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTime(%q) should return error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
		}
		if hour != tt.hour || minute != tt.minute {
			t.Errorf("parseTime(%q) = (%d, %d), want (%d, %d)",
				tt.input, hour, minute, tt.hour, tt.minute)
		}
	}
}

func TestBuildCronSpec(t *testing.T) {
	tests := []struct {
		hour     int
		minute   int
		expected string
	}{
		{9, 0, "0 9 * * *"},
		{23, 59, "59 23 * * *"},
		{12, 30, "30 12 * * *"},
	}

	for _, tt := range tests {
		if spec := buildCronSpec(tt.hour, tt.minute); spec != tt.expected {
			t.Errorf("buildCronSpec(%d, %d) = %q, want %q",
				tt.hour, tt.minute, spec, tt.expected)
		}
	}
}
