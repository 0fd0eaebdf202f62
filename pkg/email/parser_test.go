package email

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plainEmail = "From: Prize Desk <prizes@example.com>\r\n" +
	"To: you@example.com\r\n" +
	"Subject: You have WON\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Call now to claim your free cash prize.\r\n"

const multipartEmail = "From: mum@example.com\r\n" +
	"Subject: dinner\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=XYZ\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>See you <b>tonight</b></p>\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"menu.pdf\"\r\n" +
	"\r\n" +
	"%PDF-1.4\r\n" +
	"--XYZ--\r\n"

func TestParsePlain(t *testing.T) {
	msg, err := Parse(strings.NewReader(plainEmail))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if msg.Subject != "You have WON" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.From != "prizes@example.com" {
		t.Errorf("from = %q", msg.From)
	}
	if msg.Text != "Call now to claim your free cash prize." {
		t.Errorf("text = %q", msg.Text)
	}
	if got := msg.Content(); !strings.HasPrefix(got, "You have WON\n") {
		t.Errorf("content = %q", got)
	}
}

func TestParseMultipart(t *testing.T) {
	msg, err := Parse(strings.NewReader(multipartEmail))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if msg.From != "mum@example.com" {
		t.Errorf("from = %q, want bare address", msg.From)
	}
	if msg.Text != "See you tonight" {
		t.Errorf("text = %q, want tag-stripped html", msg.Text)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0] != "menu.pdf" {
		t.Errorf("attachments = %v", msg.Attachments)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prize.eml")
	if err := os.WriteFile(path, []byte(plainEmail), 0644); err != nil {
		t.Fatal(err)
	}

	msg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if msg.Subject != "You have WON" {
		t.Errorf("subject = %q", msg.Subject)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.eml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"plain email", plainEmail, true},
		{"multipart email", multipartEmail, true},
		{"sms text", "Free entry in 2 a wkly comp to win FA Cup final tkts", false},
		{"colon in prose", "Note: meet at 5\n\nthanks", false},
		{"headers without body", "Subject: hi\nFrom: a@b.c", false},
		{"folded header", "Subject: a very\n long subject\n\nbody", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect([]byte(tt.data)); got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
		})
	}
}
