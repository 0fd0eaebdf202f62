// Package email extracts classifiable text from a raw RFC 5322 message.
package email

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"
)

var (
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	headerLineRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:`)
	knownHeaderRe = regexp.MustCompile(`(?i)^(from|subject|to|date|message-id|received|mime-version|content-type):`)
)

// Message is the text content of an email
type Message struct {
	From        string
	Subject     string
	Text        string // text/plain parts, or tag-stripped text/html when none
	Attachments []string
}

// Content returns the subject and body as one message text
func (m *Message) Content() string {
	if m.Subject == "" {
		return m.Text
	}
	return m.Subject + "\n" + m.Text
}

// ParseFile parses an email file
func ParseFile(path string) (*Message, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening email")
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a message, decoding transfer encodings and charsets
func Parse(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, errors.Wrap(err, "reading email")
	}
	defer mr.Close()

	msg := &Message{}
	msg.Subject, _ = mr.Header.Subject()
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}

	var plain, html []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, errors.Wrap(err, "reading email part")
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return nil, errors.Wrap(err, "reading email body")
			}
			switch {
			case contentType == "text/html":
				html = append(html, stripTags(string(body)))
			case contentType == "" || strings.HasPrefix(contentType, "text/"):
				plain = append(plain, string(body))
			}
		case *mail.AttachmentHeader:
			name, _ := h.Filename()
			msg.Attachments = append(msg.Attachments, name)
		}
	}

	if len(plain) > 0 {
		msg.Text = strings.Join(plain, "\n")
	} else {
		msg.Text = strings.Join(html, "\n")
	}
	msg.Text = strings.TrimSpace(msg.Text)

	return msg, nil
}

// Detect reports whether data starts with an RFC 5322 header block that
// names at least one common header.
func Detect(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	known := false
	lines := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			return known && lines > 0
		}
		lines++
		if line[0] == ' ' || line[0] == '\t' {
			// Folded header continuation
			continue
		}
		if !headerLineRe.MatchString(line) {
			return false
		}
		if knownHeaderRe.MatchString(line) {
			known = true
		}
	}
	return false
}

func stripTags(s string) string {
	return strings.Join(strings.Fields(tagRe.ReplaceAllString(s, " ")), " ")
}
