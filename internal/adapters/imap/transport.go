package imap

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

// Transport fetches raw messages from one IMAP mailbox. Messages are read
// with BODY.PEEK[] so scanning never flips \Seen flags in the candidate's
// inbox, and fetching pages newest first so fresh outreach lands before an
// operator interrupts a long backfill.
type Transport struct {
	host     string
	port     int
	folder   string
	username string
	password string
	logger   *zap.Logger

	client *imapclient.Client

	// Fetch plan cached by the first FetchBatch of a sync pass.
	planSince uint32
	planUIDs  []imap.UID
}

// NewTransport creates a transport for one mailbox account.
func NewTransport(host string, port int, folder, username, password string, logger *zap.Logger) *Transport {
	if folder == "" {
		folder = "INBOX"
	}
	return &Transport{
		host:     host,
		port:     port,
		folder:   folder,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Connect dials the server over TLS, authenticates and selects the folder.
func (t *Transport) Connect(ctx context.Context) error {
	if t.username == "" || t.password == "" {
		return fmt.Errorf("%w: mailbox credentials are required", core.ErrTransport)
	}

	addr := fmt.Sprintf("%s:%d", t.host, t.port)
	client, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: t.host,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", core.ErrTransport, addr, err)
	}

	if err := client.Login(t.username, t.password).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: login %s: %v", core.ErrTransport, t.username, err)
	}

	if _, err := client.Select(t.folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: select %s: %v", core.ErrTransport, t.folder, err)
	}

	t.client = client
	t.planUIDs = nil
	t.logger.Info("Connected to mailbox",
		zap.String("mailbox", t.username),
		zap.String("folder", t.folder))
	return nil
}

// FetchBatch returns one page of raw messages with UID greater than
// sinceUID. The first call of a pass (cursor 0) runs the UID search and
// caches the newest-first fetch plan; later calls page through it. The
// returned cursor is -1 once the plan is exhausted.
func (t *Transport) FetchBatch(ctx context.Context, sinceUID uint32, batchSize, cursor int) ([]core.RawMessage, int, error) {
	if t.client == nil {
		return nil, -1, fmt.Errorf("%w: not connected", core.ErrTransport)
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if cursor == 0 || sinceUID != t.planSince {
		if err := t.buildPlan(sinceUID); err != nil {
			return nil, -1, err
		}
	}

	if cursor < 0 || cursor >= len(t.planUIDs) {
		return nil, -1, nil
	}
	end := cursor + batchSize
	if end > len(t.planUIDs) {
		end = len(t.planUIDs)
	}
	page := t.planUIDs[cursor:end]

	messages, err := t.fetchRaw(ctx, page)
	if err != nil {
		return nil, -1, err
	}

	next := end
	if next >= len(t.planUIDs) {
		next = -1
	}
	return messages, next, nil
}

// buildPlan searches for UIDs above the watermark and orders them newest
// first.
func (t *Transport) buildPlan(sinceUID uint32) error {
	criteria := &imap.SearchCriteria{}
	if sinceUID > 0 {
		var uidSet imap.UIDSet
		uidSet.AddRange(imap.UID(sinceUID+1), 0)
		criteria.UID = []imap.UIDSet{uidSet}
	}

	searchData, err := t.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return fmt.Errorf("%w: uid search: %v", core.ErrTransport, err)
	}

	uids := searchData.AllUIDs()
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}

	t.planSince = sinceUID
	t.planUIDs = uids
	t.logger.Info("Built fetch plan",
		zap.String("mailbox", t.username),
		zap.Uint32("since_uid", sinceUID),
		zap.Int("messages", len(uids)))
	return nil
}

func (t *Transport) fetchRaw(ctx context.Context, uids []imap.UID) ([]core.RawMessage, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := t.client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]core.RawMessage, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("%w: fetch collect: %v", core.ErrTransport, err)
		}

		body := buf.FindBodySection(bodyAll)
		if body == nil {
			t.logger.Warn("Message without body section skipped", zap.Uint32("uid", uint32(buf.UID)))
			continue
		}
		out = append(out, core.RawMessage{
			UID: uint32(buf.UID),
			Raw: append([]byte(nil), body...),
		})
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("%w: fetch close: %v", core.ErrTransport, err)
	}
	return out, nil
}

// Disconnect logs out and closes the connection. Safe to call when Connect
// failed.
func (t *Transport) Disconnect() error {
	if t.client == nil {
		return nil
	}
	client := t.client
	t.client = nil
	t.planUIDs = nil

	if err := client.Logout().Wait(); err != nil {
		t.logger.Debug("IMAP logout failed, closing anyway", zap.Error(err))
	}
	return client.Close()
}
