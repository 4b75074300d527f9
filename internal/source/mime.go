package source

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

const maxPartBytes = 6 << 20

// alertMessage is the text content of one job alert email.
type alertMessage struct {
	Subject string
	From    string
	Plain   string
	HTML    string
}

// Description prefers the plain text part; markup is stripped later by
// the extractor.
func (a alertMessage) Description() string {
	if strings.TrimSpace(a.Plain) != "" {
		return a.Plain
	}
	return a.HTML
}

func parseAlert(raw []byte, fallbackSubject string) alertMessage {
	out := alertMessage{Subject: decodeRFC2047(fallbackSubject)}
	if len(raw) == 0 {
		return out
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		out.Plain = string(raw)
		return out
	}

	if s := decodeRFC2047(msg.Header.Get("Subject")); s != "" {
		out.Subject = s
	}
	if from, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		out.From = from.Name
		if out.From == "" {
			out.From = from.Address
		}
	}

	body, _ := io.ReadAll(io.LimitReader(msg.Body, maxPartBytes))
	out.Plain, out.HTML = textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
	if out.Plain == "" && out.HTML == "" {
		out.Plain = string(body)
	}
	return out
}

// textParts walks a (possibly nested) MIME body and returns the longest
// text/plain and text/html parts.
func textParts(contentType, cte string, body []byte) (plain, html string) {
	cte = strings.ToLower(strings.TrimSpace(cte))

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if !strings.HasPrefix(mediaType, "multipart/") {
		s := string(decodeTransferEncoding(body, cte))
		if strings.HasPrefix(mediaType, "text/html") {
			return "", s
		}
		return s, ""
	}

	boundary := params["boundary"]
	if boundary == "" {
		return string(decodeTransferEncoding(body, cte)), ""
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		p, err := mr.NextPart()
		if err != nil {
			break
		}
		b, _ := io.ReadAll(io.LimitReader(p, maxPartBytes))
		pl, ht := textParts(p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), b)
		if len(pl) > len(plain) {
			plain = pl
		}
		if len(ht) > len(html) {
			html = ht
		}
	}
	return plain, html
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, maxPartBytes))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, maxPartBytes))
		return out
	default:
		return b
	}
}

func decodeRFC2047(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}
