/*
 * ShedReport - Copyright (C) 2022 Zane van Iperen.
 *    Contact: zane@zanevaniperen.com
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package scanner

import (
	"fmt"
	"io"
	"net/textproto"

	"github.com/emersion/go-imap"
	log "github.com/sirupsen/logrus"
	imap2 "github.com/vs49688/shedreport/imap"
)

// The two projections fetched per message, PEEK'd so scanning never
// flags anything as read.
const (
	headerParts = "BODY.PEEK[HEADER.FIELDS (From Subject)]"
	bodyParts   = "BODY.PEEK[TEXT]"
)

func NewScanner(cfg *Config, factory imap2.ClientFactory) (*MailScanner, error) {
	headerSection, err := imap.ParseBodySectionName(imap.FetchItem(headerParts))
	if err != nil {
		panic(err)
	}

	textSection, err := imap.ParseBodySectionName(imap.FetchItem(bodyParts))
	if err != nil {
		panic(err)
	}

	c, err := factory.NewClient(&cfg.Connection)
	if err != nil {
		return nil, err
	}

	status, err := c.Select(cfg.Mailbox, true)
	if err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select mailbox %q: %w", cfg.Mailbox, err)
	}

	log.WithFields(log.Fields{
		"name":         status.Name,
		"num_messages": status.Messages,
		"read_only":    status.ReadOnly,
	}).Debug("scanner_mailbox_selected")

	return &MailScanner{
		client:        c,
		headerSection: headerSection,
		textSection:   textSection,
		sender:        cfg.Sender,
		to:            cfg.To,
		sentSince:     cfg.SentSince,
		sentBefore:    cfg.SentBefore,
	}, nil
}

// Search returns the UIDs of matching messages in mailbox order, which
// is ascending by server-assigned sequence.
func (s *MailScanner) Search() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.SentSince = s.sentSince
	criteria.SentBefore = s.sentBefore
	criteria.Header = textproto.MIMEHeader{}
	criteria.Header.Add("From", s.sender)
	if s.to != "" {
		criteria.Header.Add("To", s.to)
	}

	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"uids": uids}).Trace("scanner_search_result")
	return uids, nil
}

// FetchNotification fetches one message's From/Subject header fields
// and its plain-text body.
func (s *MailScanner) FetchNotification(uid uint32) (string, string, error) {
	log.WithField("uid", uid).Trace("scanner_fetch_start")

	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	items := []imap.FetchItem{s.headerSection.FetchItem(), s.textSection.FetchItem()}

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqset, items, ch)
	}()

	var msg *imap.Message
	for m := range ch {
		if msg == nil {
			msg = m
		}
	}

	if err := <-done; err != nil {
		return "", "", err
	}

	if msg == nil {
		return "", "", fmt.Errorf("no message with uid %v", uid)
	}

	header, err := literalString(msg.GetBody(s.headerSection))
	if err != nil {
		return "", "", fmt.Errorf("failed to read header section: %w", err)
	}

	body, err := literalString(msg.GetBody(s.textSection))
	if err != nil {
		return "", "", fmt.Errorf("failed to read text section: %w", err)
	}

	return header, body, nil
}

func literalString(l imap.Literal) (string, error) {
	if l == nil {
		return "", fmt.Errorf("section not returned by server")
	}

	b, err := io.ReadAll(l)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (s *MailScanner) Close() {
	if err := s.client.Logout(); err != nil {
		log.WithError(err).Warn("scanner_logout_failed")
	}
}
