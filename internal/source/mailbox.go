package source

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/logger"
)

type MailboxConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	Mailbox     string
	MaxMessages int
	SinceDays   int
	MaxResults  int
	TLSConfig   *tls.Config
}

// Mailbox reads job alert emails over IMAP. Each matching message becomes
// one listing: the subject is the title, the text body the description.
// Messages are fetched with BODY.PEEK so they stay unread.
type Mailbox struct {
	cfg MailboxConfig
	log logger.Logger
}

func NewMailbox(cfg MailboxConfig, log logger.Logger) *Mailbox {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 50
	}
	if cfg.SinceDays <= 0 {
		cfg.SinceDays = 90
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Mailbox{cfg: cfg, log: log}
}

func (m *Mailbox) Name() string { return "mailbox" }

func (m *Mailbox) Fetch(ctx context.Context, role string) ([]domain.JobRecord, error) {
	c, err := m.dial(ctx)
	if err != nil {
		return nil, &UpstreamError{Provider: m.Name(), Err: err}
	}
	defer m.logoutAndClose(c)

	if _, err := c.Select(m.cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, &UpstreamError{Provider: m.Name(), Err: fmt.Errorf("imap select %s: %w", m.cfg.Mailbox, err)}
	}

	criteria := &imap.SearchCriteria{
		Since: time.Now().AddDate(0, 0, -m.cfg.SinceDays),
	}
	if r := strings.TrimSpace(role); r != "" {
		criteria.Text = []string{r}
	}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, &UpstreamError{Provider: m.Name(), Err: fmt.Errorf("imap uid search: %w", err)}
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return []domain.JobRecord{}, nil
	}

	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > m.cfg.MaxMessages {
		uids = uids[:m.cfg.MaxMessages]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]domain.JobRecord, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}

		buf, err := msgData.Collect()
		if err != nil {
			return nil, &UpstreamError{Provider: m.Name(), Err: fmt.Errorf("imap fetch collect: %w", err)}
		}

		subject := ""
		if buf.Envelope != nil {
			subject = buf.Envelope.Subject
		}
		msg := parseAlert(buf.FindBodySection(bodyAll), subject)
		out = append(out, domain.NewJobRecord(m.Name(), msg.Subject, msg.Description(), msg.From, ""))
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, &UpstreamError{Provider: m.Name(), Err: fmt.Errorf("imap fetch close: %w", err)}
	}

	m.log.DebugObj("mailbox fetch complete", "mailbox_fetch", map[string]any{
		"role":     role,
		"messages": len(out),
		"mailbox":  m.cfg.Mailbox,
	})
	return bound(out, m.cfg.MaxResults), nil
}

func (m *Mailbox) dial(ctx context.Context) (*imapclient.Client, error) {
	if m.cfg.Host == "" {
		return nil, errors.New("imap host is required")
	}
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return nil, errors.New("imap username/password is required")
	}
	tlsCfg := m.cfg.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: m.cfg.Host}
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Close the connection if the caller gives up mid-command.
	context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

func (m *Mailbox) logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		m.log.WarnObj("imap logout failed", "mailbox_logout", map[string]any{"error": err})
	}
	_ = c.Close()
}
