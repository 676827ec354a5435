package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatterRendersAuditLine(t *testing.T) {
	f := &CustomFormatter{SystemName: "agency-service"}

	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Event ID: SERVICE_START, Description: Starting Agency Service...",
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	line := string(out)
	for _, want := range []string{
		"Date: 2026-08-01",
		"Time: 12:30:45",
		"Event Source: agency-service",
		"Event Type: INFO",
		"Event ID: ",
		"Message: Event ID: SERVICE_START, Description: Starting Agency Service...",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("formatted line missing %q: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("formatted line must end with a newline")
	}
}

func TestCustomFormatterUppercasesLevel(t *testing.T) {
	f := &CustomFormatter{SystemName: "agency-service"}

	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "something",
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if !strings.Contains(string(out), "Event Type: WARNING") {
		t.Fatalf("expected uppercased level in: %s", out)
	}
}
