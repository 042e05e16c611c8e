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
	"time"

	imap2 "github.com/vs49688/shedreport/imap"
)

type Config struct {
	Connection imap2.ConnectionConfig
	Mailbox    string

	// Search criteria. Sender is mandatory, To optional, SentSince
	// mandatory, SentBefore optional (zero means unbounded).
	Sender     string
	To         string
	SentSince  time.Time
	SentBefore time.Time
}

// MailScanner is a read-only view over one mailbox. It searches for
// matching messages and fetches the two projections the decoder needs.
type MailScanner struct {
	client imap2.Client

	headerSection *imap2.BodySectionName
	textSection   *imap2.BodySectionName

	sender     string
	to         string
	sentSince  time.Time
	sentBefore time.Time
}
