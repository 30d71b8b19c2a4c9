package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var (
	organizerPattern = regexp.MustCompile(`(?i)ORGANIZER.*mailto:([^ \r\n]+)`)
	attendeePattern  = regexp.MustCompile(`(?i)ATTENDEE.*mailto:([^ \r\n]+)`)
)

// ParsedMessage is a decoded mail message with the parts the extraction
// pipeline needs: addressing headers, the plain-text body, the raw HTML body
// and any calendar payloads.
type ParsedMessage struct {
	From    string
	Sender  string
	ReplyTo string
	Cc      string
	Bcc     string
	Subject string
	Date    time.Time
	UID     uint32

	TextBody     string
	HTMLBody     string
	CalendarBody string
}

// ParseMessage decodes a raw RFC 822 message. Multipart bodies are walked
// one level deep collecting text/plain, text/html and text/calendar parts;
// nested multipart/alternative containers are descended into once since
// that is how HTML mail is almost always shaped.
func ParseMessage(raw []byte, uid uint32) (*ParsedMessage, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	pm := &ParsedMessage{
		From:    msg.Header.Get("From"),
		Sender:  msg.Header.Get("Sender"),
		ReplyTo: msg.Header.Get("Reply-To"),
		Cc:      msg.Header.Get("Cc"),
		Bcc:     msg.Header.Get("Bcc"),
		Subject: decodeHeader(msg.Header.Get("Subject")),
		UID:     uid,
	}
	if date, err := msg.Header.Date(); err == nil {
		pm.Date = date
	}

	contentType := msg.Header.Get("Content-Type")
	encoding := msg.Header.Get("Content-Transfer-Encoding")
	if err := pm.collectParts(msg.Body, contentType, encoding, 0); err != nil {
		return nil, err
	}
	return pm, nil
}

// IsCalendarInvite reports whether the message carries a text/calendar part.
func (pm *ParsedMessage) IsCalendarInvite() bool {
	return pm.CalendarBody != ""
}

// CalendarParticipants returns the ORGANIZER and ATTENDEE mailto addresses
// from the calendar payload, lowercased, deduplicated.
func (pm *ParsedMessage) CalendarParticipants() []string {
	if pm.CalendarBody == "" {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range []*regexp.Regexp{organizerPattern, attendeePattern} {
		for _, m := range pattern.FindAllStringSubmatch(pm.CalendarBody, -1) {
			addr := strings.ToLower(strings.TrimSpace(m[1]))
			if addr == "" {
				continue
			}
			if _, ok := seen[addr]; !ok {
				seen[addr] = struct{}{}
				out = append(out, addr)
			}
		}
	}
	return out
}

func (pm *ParsedMessage) collectParts(body io.Reader, contentType, encoding string, depth int) error {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(decodeBody(body, encoding))
		if err != nil {
			return fmt.Errorf("failed to read message body: %w", err)
		}
		pm.storePart(mediaType, data)
		return nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("failed to read message body: %w", err)
		}
		pm.TextBody += string(data)
		return nil
	}

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed trailing parts should not discard what was read.
			return nil
		}

		partType := part.Header.Get("Content-Type")
		partEncoding := part.Header.Get("Content-Transfer-Encoding")
		partMedia, _, mErr := mime.ParseMediaType(partType)
		if mErr != nil {
			partMedia = "text/plain"
		}

		if strings.HasPrefix(partMedia, "multipart/") {
			if depth < 2 {
				if err := pm.collectParts(part, partType, "", depth+1); err != nil {
					return err
				}
			}
			continue
		}

		data, rErr := io.ReadAll(decodeBody(part, partEncoding))
		if rErr != nil {
			continue
		}
		pm.storePart(partMedia, data)
	}
	return nil
}

func (pm *ParsedMessage) storePart(mediaType string, data []byte) {
	switch {
	case strings.Contains(mediaType, "text/plain"):
		if pm.TextBody != "" {
			pm.TextBody += "\n"
		}
		pm.TextBody += string(data)
	case strings.Contains(mediaType, "text/html"):
		if pm.HTMLBody == "" {
			pm.HTMLBody = string(data)
		}
	case strings.Contains(mediaType, "text/calendar"):
		if pm.CalendarBody != "" {
			pm.CalendarBody += "\n"
		}
		pm.CalendarBody += string(data)
	}
}

func decodeBody(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func decodeHeader(value string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
