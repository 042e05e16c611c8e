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

// Package notification decodes Galaxy Tool Shed alert emails into
// typed records.
//
// A notification body looks like:
//
//	Sharable link:         https://toolshed.g2.bx.psu.edu/view/kaymccoy/calculate_fitness
//	Repository name:       calculate_fitness
//	Revision:              0:babd6d75a0b0
//	Change description:
//	Uploaded
//
//	Uploaded by:           kaymccoy
//	Date content uploaded: 2016-11-06
//
// Update-style notifications carry a free-text change description and
// terminate it with "Changed by:" instead of "Uploaded by:".
package notification

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/vs49688/shedreport/shed"
)

// ToolShedSender is the address the main Galaxy tool shed has sent
// notifications from since 2016-07-27. Earlier senders
// (montana/radegast.galaxyproject.org) predate the date ranges anyone
// queries nowadays, but can be selected via DecodeOptions.Sender.
const ToolShedSender = "galaxy-no-reply@toolshed.g2.bx.psu.edu"

var (
	ErrNotToolShed = errors.New("not a tool shed notification")
	ErrMalformed   = errors.New("malformed notification")
)

type Kind int

const (
	KindUnrecognized Kind = 0
	KindNew          Kind = 1
	KindUpdate       Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindUpdate:
		return "update"
	default:
		return "unrecognized"
	}
}

type DecodeOptions struct {
	// Sender is the address notifications are expected from.
	// Empty means ToolShedSender.
	Sender string
	// StripPlanemoCommitText drops "planemo upload" boilerplate
	// lines from commit messages.
	StripPlanemoCommitText bool
}

// Notification is one decoded tool shed email, optionally enriched
// with catalog metadata.
type Notification struct {
	Sender  string
	Subject string

	// URL is the repository's sharable link. AuthorURL is everything
	// up to its final path segment, i.e. the author's home page.
	URL       string
	AuthorURL string
	Author    string
	Name      string
	Revision  string
	Commit    string

	// Filled in by Enrich.
	Type        string
	Synopsis    string
	Description string
	Passe       bool
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

func findLabelled(lines []string, label string) (string, bool) {
	for _, l := range lines {
		if strings.HasPrefix(l, label) {
			return strings.TrimSpace(l[len(label):]), true
		}
	}

	return "", false
}

// Decode parses the "From"/"Subject" header projection and the plain-text
// body of one email. A sender mismatch returns ErrNotToolShed; a body
// that doesn't carry the expected labelled lines returns ErrMalformed.
// Decode is pure text transformation, it never touches the network.
func Decode(headerText string, bodyText string, opts *DecodeOptions) (*Notification, error) {
	var o DecodeOptions
	if opts != nil {
		o = *opts
	}

	if o.Sender == "" {
		o.Sender = ToolShedSender
	}

	headers := splitLines(headerText)

	sender, ok := findLabelled(headers, "From:")
	if !ok {
		return nil, fmt.Errorf("%w: missing From header", ErrMalformed)
	}

	subject, ok := findLabelled(headers, "Subject:")
	if !ok {
		return nil, fmt.Errorf("%w: missing Subject header", ErrMalformed)
	}

	if sender != o.Sender {
		return nil, ErrNotToolShed
	}

	n := &Notification{
		Sender:  sender,
		Subject: subject,
		Type:    "Unknown",
	}

	body := splitLines(bodyText)

	link, ok := findLabelled(body, "Sharable link:")
	if !ok {
		return nil, fmt.Errorf("%w: missing sharable link", ErrMalformed)
	}

	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: bad sharable link %q", ErrMalformed, link)
	}

	n.URL = link
	n.Name = path.Base(u.Path)

	authorPath := path.Dir(u.Path)
	n.AuthorURL = u.Scheme + "://" + u.Host + authorPath
	n.Author = path.Base(authorPath)

	revision, ok := findLabelled(body, "Revision:")
	if !ok {
		return nil, fmt.Errorf("%w: missing revision", ErrMalformed)
	}

	// The field layout is "<sequence number>:<changeset hash>"; only
	// the hash identifies the revision to the catalog.
	_, hash, found := strings.Cut(revision, ":")
	if !found {
		return nil, fmt.Errorf("%w: bad revision %q", ErrMalformed, revision)
	}
	n.Revision = hash

	start := -1
	for i, l := range body {
		if strings.HasPrefix(l, "Change description:") {
			start = i + 1
			break
		}
	}

	if start < 0 {
		return nil, fmt.Errorf("%w: missing change description", ErrMalformed)
	}

	terminated := false
	for _, line := range body[start:] {
		if head, _, _ := strings.Cut(line, ":"); head == "Uploaded by" || head == "Changed by" {
			terminated = true
			break
		}

		words := strings.Split(line, " ")
		switch {
		case words[0] == "Uploaded":
			// "Uploaded" is the placeholder the shed uses when no
			// commit text was given; only trailing words carry meaning.
			if len(words) > 1 {
				n.Commit += strings.Join(words[1:], " ")
			}
		case o.StripPlanemoCommitText && len(words) >= 2 && words[0] == "planemo" && words[1] == "upload":
			// tool boilerplate, not a human commit message
		default:
			n.Commit += line
		}

		n.Commit = Polish(n.Commit)
	}

	if !terminated {
		return nil, fmt.Errorf("%w: unterminated change description", ErrMalformed)
	}

	return n, nil
}

// Kind classifies a notification by its subject line. The fourth
// word distinguishes new-repository alerts from update alerts.
func (n *Notification) Kind() Kind {
	fields := strings.Fields(n.Subject)
	if len(fields) < 4 {
		return KindUnrecognized
	}

	switch fields[3] {
	case "alert":
		return KindNew
	case "update":
		return KindUpdate
	default:
		return KindUnrecognized
	}
}

// Enrich merges catalog metadata into the notification. Free-text
// fields are polished for display.
func (n *Notification) Enrich(info *shed.RepositoryInfo) {
	n.Synopsis = Polish(info.Description)
	n.Description = Polish(info.LongDescription)
	if info.Type != "" {
		n.Type = info.Type
	}
	n.Passe = info.Flagged()
}
